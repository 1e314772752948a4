// Package chat starts a buyer/seller conversation from a product.
package chat

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"marketplace/internal/client/navigation"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/event"
	"marketplace/pkg/logger"
)

// ConversationResolver finds or creates the conversation with a peer. A failed
// lookup has already been reported to the user; it only returns ok=false.
type ConversationResolver interface {
	ResolveConversation(ctx context.Context, peerID string) (conversationID string, ok bool)
}

// ConversationWriter is the single mutation entry point of the shared
// conversation list.
type ConversationWriter interface {
	Upsert(conversations ...entity.Conversation)
}

// Emitter sends an event to the message broker without waiting for delivery.
type Emitter interface {
	Emit(ctx context.Context, name string, payload interface{}) error
}

type Option func(*InitiationFlow)

func WithIDGenerator(gen IDGenerator) Option {
	return func(f *InitiationFlow) { f.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(f *InitiationFlow) { f.now = now }
}

// InitiationFlow opens a chat with a product's seller: it resolves the
// conversation, stores an optimistic purchase message, emits it to the peer and
// lands the user in the chat window.
type InitiationFlow struct {
	resolver  ConversationResolver
	store     ConversationWriter
	emitter   Emitter
	navigator navigation.Navigator
	validate  *validator.Validate
	newID     IDGenerator
	now       func() time.Time
}

func NewInitiationFlow(
	resolver ConversationResolver,
	store ConversationWriter,
	emitter Emitter,
	navigator navigation.Navigator,
	opts ...Option,
) *InitiationFlow {
	f := &InitiationFlow{
		resolver:  resolver,
		store:     store,
		emitter:   emitter,
		navigator: navigator,
		validate:  validator.New(),
		newID:     NewMessageID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// initiateInput is valid when both the product (with its seller id) and the
// signed-in user (with an id) are present.
type initiateInput struct {
	Product *entity.Product `validate:"required"`
	User    *entity.Profile `validate:"required"`
}

func (f *InitiationFlow) ready(product *entity.Product, user *entity.Profile) bool {
	return f.validate.Struct(initiateInput{Product: product, User: user}) == nil
}

// InitiateChat runs the flow. Invalid input and failed lookups end it without
// any effect; nothing is returned to the caller.
func (f *InitiationFlow) InitiateChat(ctx context.Context, product *entity.Product, user *entity.Profile) {
	if !f.ready(product, user) {
		logger.Debug("InitiateChat: missing product, seller or signed-in user")
		return
	}

	seller := product.Seller
	conversationID, ok := f.resolver.ResolveConversation(ctx, seller.ID)
	if !ok {
		return
	}

	message := newPurchaseMessage(f.newID(), f.now(), product, user)

	f.store.Upsert(entity.Conversation{
		ID:          conversationID,
		Chats:       []entity.ChatMessage{message},
		PeerProfile: seller,
	})

	err := f.emitter.Emit(ctx, event.SendMessage, event.SendMessagePayload{
		Message:        message,
		ConversationID: conversationID,
		To:             seller.ID,
	})
	if err != nil {
		logger.Warn("InitiateChat: send_message for conversation %s not emitted: %v", conversationID, err)
	}

	f.navigator.Reset(1, []navigation.Route{
		{Name: navigation.Home},
		{
			Name: navigation.ChatWindow,
			Params: navigation.ChatWindowParams{
				ConversationID: conversationID,
				PeerProfile:    seller,
			},
		},
	})
}
