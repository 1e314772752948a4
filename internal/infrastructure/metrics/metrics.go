package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_http_requests_total",
			Help: "HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	RelayedMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_relayed_messages_total",
			Help: "send_message events handled by the websocket relay.",
		},
		[]string{"outcome"},
	)

	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "marketplace_websocket_connections",
		Help: "Open websocket connections.",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, RelayedMessages, ActiveConnections)
}

// Middleware counts every request by its route template.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		status := c.Response().Status
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
		}
		HTTPRequests.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).Inc()
		return err
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
