package chat

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain/entity"
)

// timeLayout is ISO-8601 in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// IDGenerator produces identifiers for messages created on this device.
type IDGenerator func() string

// NewMessageID returns a random UUID, unique enough to never collide with
// server issued ids while the optimistic message is alive.
func NewMessageID() string {
	return uuid.NewString()
}

// PurchaseText is the opening message a buyer sends about a product.
func PurchaseText(name string, price float64) string {
	return fmt.Sprintf("Tôi muốn mua: %s\nGiá: %sVND", name, FormatPrice(price))
}

// FormatPrice prints whole prices without a fractional part.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// newPurchaseMessage builds the optimistic message announcing interest in product.
func newPurchaseMessage(id string, now time.Time, product *entity.Product, author *entity.Profile) entity.ChatMessage {
	return entity.ChatMessage{
		ID:     id,
		Text:   PurchaseText(product.Name, product.Price),
		Time:   now.UTC().Format(timeLayout),
		Image:  product.Thumbnail,
		Viewed: false,
		User: entity.Profile{
			ID:     author.ID,
			Name:   author.Name,
			Avatar: author.Avatar,
		},
	}
}
