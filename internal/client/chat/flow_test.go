package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/client/navigation"
	"marketplace/internal/client/store"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/event"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	l.calls = append(l.calls, call)
	l.mu.Unlock()
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeResolver struct {
	log   *callLog
	id    string
	ok    bool
	peers []string
	mu    sync.Mutex
}

func (r *fakeResolver) ResolveConversation(ctx context.Context, peerID string) (string, bool) {
	r.mu.Lock()
	r.peers = append(r.peers, peerID)
	r.mu.Unlock()
	r.log.add("resolve")
	return r.id, r.ok
}

type loggingStore struct {
	*store.ConversationStore
	log *callLog
}

func (s loggingStore) Upsert(conversations ...entity.Conversation) {
	s.log.add("upsert")
	s.ConversationStore.Upsert(conversations...)
}

type emitted struct {
	name    string
	payload event.SendMessagePayload
}

type fakeEmitter struct {
	log    *callLog
	err    error
	mu     sync.Mutex
	events []emitted
}

func (e *fakeEmitter) Emit(ctx context.Context, name string, payload interface{}) error {
	e.log.add("emit")
	e.mu.Lock()
	e.events = append(e.events, emitted{name: name, payload: payload.(event.SendMessagePayload)})
	e.mu.Unlock()
	return e.err
}

type loggingNavigator struct {
	*navigation.Stack
	log *callLog
}

func (n loggingNavigator) Reset(index int, routes []navigation.Route) {
	n.log.add("reset")
	n.Stack.Reset(index, routes)
}

type fixture struct {
	log       *callLog
	resolver  *fakeResolver
	store     *store.ConversationStore
	emitter   *fakeEmitter
	navigator *navigation.Stack
	flow      *InitiationFlow
}

var fixedTime = time.Date(2024, 3, 9, 8, 30, 15, 123000000, time.UTC)

func newFixture(conversationID string, ok bool) *fixture {
	log := &callLog{}
	f := &fixture{
		log:       log,
		resolver:  &fakeResolver{log: log, id: conversationID, ok: ok},
		store:     store.NewConversationStore(),
		emitter:   &fakeEmitter{log: log},
		navigator: navigation.NewStack(navigation.Route{Name: navigation.Home}, navigation.Route{Name: navigation.SingleProduct}),
	}

	n := 0
	f.flow = NewInitiationFlow(
		f.resolver,
		loggingStore{ConversationStore: f.store, log: log},
		f.emitter,
		loggingNavigator{Stack: f.navigator, log: log},
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("m%d", n)
		}),
		WithClock(func() time.Time { return fixedTime }),
	)
	return f
}

func bike() *entity.Product {
	return &entity.Product{
		ID:        "p1",
		Name:      "Xe đạp",
		Price:     150000,
		Thumbnail: "t.png",
		Seller:    entity.Profile{ID: "s1", Name: "Seller"},
	}
}

func buyer() *entity.Profile {
	return &entity.Profile{ID: "u1", Name: "Buyer", Avatar: "u1.png"}
}

func TestInitiateChat(t *testing.T) {
	f := newFixture("c9", true)

	f.flow.InitiateChat(context.Background(), bike(), buyer())

	assert.Equal(t, []string{"s1"}, f.resolver.peers)

	conversation, ok := f.store.Get("c9")
	require.True(t, ok)
	assert.Equal(t, entity.Profile{ID: "s1", Name: "Seller"}, conversation.PeerProfile)
	require.Len(t, conversation.Chats, 1)

	message := conversation.Chats[0]
	assert.Equal(t, "m1", message.ID)
	assert.Equal(t, "Tôi muốn mua: Xe đạp\nGiá: 150000VND", message.Text)
	assert.Equal(t, "2024-03-09T08:30:15.123Z", message.Time)
	assert.Equal(t, "t.png", message.Image)
	assert.False(t, message.Viewed)
	assert.Equal(t, *buyer(), message.User)

	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, event.SendMessage, f.emitter.events[0].name)
	assert.Equal(t, event.SendMessagePayload{
		Message:        message,
		ConversationID: "c9",
		To:             "s1",
	}, f.emitter.events[0].payload)

	assert.Equal(t, []navigation.Route{
		{Name: navigation.Home},
		{
			Name: navigation.ChatWindow,
			Params: navigation.ChatWindowParams{
				ConversationID: "c9",
				PeerProfile:    entity.Profile{ID: "s1", Name: "Seller"},
			},
		},
	}, f.navigator.Routes())
	current, ok := f.navigator.Current()
	require.True(t, ok)
	assert.Equal(t, navigation.ChatWindow, current.Name)
}

func TestInitiateChat_Listings(t *testing.T) {
	tests := []struct {
		name           string
		product        *entity.Product
		user           *entity.Profile
		conversationID string
		wantText       string
	}{
		{
			name: "desk lamp",
			product: &entity.Product{
				ID:     "p1",
				Name:   "Desk Lamp",
				Price:  150000,
				Seller: entity.Profile{ID: "s1", Name: "Seller"},
			},
			user:           &entity.Profile{ID: "b1", Name: "Buyer"},
			conversationID: "c1",
			wantText:       "Tôi muốn mua: Desk Lamp\nGiá: 150000VND",
		},
		{
			name: "fractional price",
			product: &entity.Product{
				ID:     "p2",
				Name:   "Tea",
				Price:  12.5,
				Seller: entity.Profile{ID: "s2"},
			},
			user:           &entity.Profile{ID: "b2"},
			conversationID: "c2",
			wantText:       "Tôi muốn mua: Tea\nGiá: 12.5VND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.conversationID, true)

			f.flow.InitiateChat(context.Background(), tt.product, tt.user)

			conversation, ok := f.store.Get(tt.conversationID)
			require.True(t, ok)
			require.Len(t, conversation.Chats, 1)
			assert.Equal(t, tt.wantText, conversation.Chats[0].Text)
			assert.Equal(t, tt.user.ID, conversation.Chats[0].User.ID)

			require.Len(t, f.emitter.events, 1)
			assert.Equal(t, tt.product.Seller.ID, f.emitter.events[0].payload.To)

			current, ok := f.navigator.Current()
			require.True(t, ok)
			assert.Equal(t, navigation.ChatWindow, current.Name)
			params, ok := current.Params.(navigation.ChatWindowParams)
			require.True(t, ok)
			assert.Equal(t, tt.conversationID, params.ConversationID)
		})
	}
}

func TestInitiateChat_EffectsAreOrdered(t *testing.T) {
	f := newFixture("c9", true)

	f.flow.InitiateChat(context.Background(), bike(), buyer())

	assert.Equal(t, []string{"resolve", "upsert", "emit", "reset"}, f.log.all())
}

func TestInitiateChat_ResolveFailureHasNoEffects(t *testing.T) {
	f := newFixture("", false)
	before := f.navigator.Routes()

	f.flow.InitiateChat(context.Background(), bike(), buyer())

	assert.Equal(t, []string{"resolve"}, f.log.all())
	assert.Zero(t, f.store.Len())
	assert.Empty(t, f.emitter.events)
	assert.Equal(t, before, f.navigator.Routes())
}

func TestInitiateChat_EmitFailureStillNavigates(t *testing.T) {
	f := newFixture("c9", true)
	f.emitter.err = errors.New("socket down")

	f.flow.InitiateChat(context.Background(), bike(), buyer())

	assert.Equal(t, []string{"resolve", "upsert", "emit", "reset"}, f.log.all())
	assert.Equal(t, 1, f.store.Len())
	current, _ := f.navigator.Current()
	assert.Equal(t, navigation.ChatWindow, current.Name)
}

func TestInitiateChat_MissingInputIsNoop(t *testing.T) {
	noSeller := bike()
	noSeller.Seller = entity.Profile{}

	tests := []struct {
		name    string
		product *entity.Product
		user    *entity.Profile
	}{
		{name: "nil product", product: nil, user: buyer()},
		{name: "seller without id", product: noSeller, user: buyer()},
		{name: "signed out", product: bike(), user: nil},
		{name: "user without id", product: bike(), user: &entity.Profile{Name: "ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("c9", true)

			f.flow.InitiateChat(context.Background(), tt.product, tt.user)

			assert.Empty(t, f.log.all())
			assert.Zero(t, f.store.Len())
		})
	}
}

func TestInitiateChat_TwiceAppendsToSameConversation(t *testing.T) {
	f := newFixture("c9", true)

	f.flow.InitiateChat(context.Background(), bike(), buyer())
	f.flow.InitiateChat(context.Background(), bike(), buyer())

	assert.Equal(t, 1, f.store.Len())
	conversation, _ := f.store.Get("c9")
	require.Len(t, conversation.Chats, 2)
	assert.Equal(t, "m1", conversation.Chats[0].ID)
	assert.Equal(t, "m2", conversation.Chats[1].ID)
	assert.Len(t, f.emitter.events, 2)
}

func TestInitiateChat_ConcurrentInvocations(t *testing.T) {
	log := &callLog{}
	conversations := store.NewConversationStore()
	flow := NewInitiationFlow(
		&fakeResolver{log: log, id: "c9", ok: true},
		conversations,
		&fakeEmitter{log: log},
		navigation.NewStack(navigation.Route{Name: navigation.Home}),
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flow.InitiateChat(context.Background(), bike(), buyer())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, conversations.Len())
	conversation, _ := conversations.Get("c9")
	assert.Len(t, conversation.Chats, 20)
}

func TestPurchaseText(t *testing.T) {
	assert.Equal(t, "Tôi muốn mua: Lamp\nGiá: 89000VND", PurchaseText("Lamp", 89000))
	assert.Equal(t, "Tôi muốn mua: Lamp\nGiá: 89.5VND", PurchaseText("Lamp", 89.5))
}
