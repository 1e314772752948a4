package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/client/chat"
	"marketplace/internal/client/navigation"
	"marketplace/internal/client/notify"
	"marketplace/internal/client/realtime"
	"marketplace/internal/client/remote"
	"marketplace/internal/client/screen"
	"marketplace/internal/client/session"
	"marketplace/internal/client/store"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/event"
	"marketplace/pkg/config"
	"marketplace/pkg/logger"
)

const usage = `usage: client <command> [product-id]

commands:
  latest          list the recently listed offers
  show <id>       show a product and the actions available to you
  chat <id>       message the seller of a product
  delete <id>     delete one of your products`

// settle gives fire-and-forget frames a moment to leave before exit.
const settle = 500 * time.Millisecond

type app struct {
	session       *session.Session
	api           *remote.API
	conversations *store.ConversationStore
	listings      *store.ListingStore
	nav           *navigation.Stack
	notifier      notify.Notifier
	channel       realtime.Channel
	flow          *chat.InitiationFlow
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logger.Error("Failed to start client: %v", err)
		os.Exit(1)
	}
	defer a.channel.Close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	sess, err := session.FromToken(cfg.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TOKEN: %w", err)
	}

	notifier := notify.LogNotifier{}
	client := remote.NewClient(cfg.APIBaseURL, sess, notifier, cfg.RequestTimeout)

	channel, err := realtime.New(cfg, sess)
	if err != nil {
		return nil, err
	}

	a := &app{
		session:       sess,
		api:           remote.NewAPI(client),
		conversations: store.NewConversationStore(),
		listings:      store.NewListingStore(),
		nav:           navigation.NewStack(navigation.Route{Name: navigation.Home}),
		notifier:      notifier,
		channel:       channel,
	}
	a.flow = chat.NewInitiationFlow(a.api, a.conversations, channel, a.nav)
	a.conversations.Subscribe(func() {
		logger.Debug("Conversation list updated: %d conversation(s)", a.conversations.Len())
	})

	if socket, ok := channel.(*realtime.WebSocket); ok && sess.Profile() != nil {
		socket.OnEvent(a.onEvent)
		if err := socket.Connect(ctx); err != nil {
			logger.Warn("Realtime socket unavailable, messages will not be delivered: %v", err)
		}
	}
	return a, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "latest":
		a.showLatest(ctx)
		return nil
	case "show", "chat", "delete":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	if len(args) < 1 {
		return fmt.Errorf("%s needs a product id", command)
	}
	a.nav.Navigate(navigation.Route{
		Name:   navigation.SingleProduct,
		Params: navigation.SingleProductParams{ID: args[0]},
	})
	detail := a.productScreen(args[0])
	detail.Load(ctx)
	defer detail.Close()

	if detail.Product() == nil {
		return nil
	}

	switch command {
	case "show":
		a.printProduct(detail)
	case "chat":
		detail.OnChatPress(ctx)
		time.Sleep(settle)
		if socket, ok := a.channel.(*realtime.WebSocket); ok && !socket.Connected() {
			logger.Warn("Realtime socket is down, the seller was not notified")
		}
	case "delete":
		if !detail.Actions().OptionMenu {
			fmt.Println("Only the seller can delete this product.")
			return nil
		}
		detail.SelectOption(ctx, screen.OptionDelete)
	}

	a.printRoute()
	return nil
}

func (a *app) productScreen(id string) *screen.ProductDetail {
	return screen.NewProductDetail(screen.Deps{
		API:       a.api,
		Session:   a.session,
		Chat:      a.flow,
		Listings:  a.listings,
		Navigator: a.nav,
		Notifier:  a.notifier,
		Confirmer: newPromptConfirmer(os.Stdin, os.Stdout),
	}, navigation.SingleProductParams{ID: id})
}

func (a *app) showLatest(ctx context.Context) {
	products, ok := a.api.LatestProducts(ctx)
	if !ok {
		return
	}
	a.listings.Set(products)

	fmt.Println(entity.LatestProductsTitle)
	for _, p := range a.listings.All() {
		fmt.Printf("  %-24s %-30s %v\n", p.ID, p.Name, p.Price)
	}
}

func (a *app) printProduct(detail *screen.ProductDetail) {
	p := detail.Product()
	fmt.Printf("%s\n  price: %s\n  seller: %s (%s)\n", p.Name, chat.FormatPrice(p.Price), p.Seller.Name, p.Seller.ID)
	if slider := detail.Slider(); slider.Visible() {
		image, _ := slider.Current()
		fmt.Printf("  image %s: %s\n", slider.Indicator(), image)
	}

	actions := detail.Actions()
	if actions.OptionMenu {
		fmt.Printf("  actions: %v\n", screen.MenuOptions)
	}
	if actions.Chat {
		fmt.Println("  actions: [Chat]")
	}
}

func (a *app) printRoute() {
	if route, ok := a.nav.Current(); ok {
		logger.Info("Current screen: %s", route.Name)
	}
	for _, c := range a.conversations.All() {
		logger.Info("Conversation %s with %s: %d message(s)", c.ID, c.PeerProfile.Name, len(c.Chats))
	}
}

// onEvent folds messages relayed by the API into the conversation list.
func (a *app) onEvent(envelope event.Envelope) {
	switch envelope.Event {
	case event.ChatMessage:
		var payload event.SendMessagePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			logger.Warn("Ignoring malformed chat:message: %v", err)
			return
		}
		a.conversations.Upsert(entity.Conversation{
			ID:          payload.ConversationID,
			Chats:       []entity.ChatMessage{payload.Message},
			PeerProfile: payload.Message.User,
		})
	case event.Error:
		var payload event.ErrorPayload
		if err := json.Unmarshal(envelope.Data, &payload); err == nil {
			a.notifier.Show(notify.Notification{Message: payload.Message, Type: notify.Danger})
		}
	}
}
