// Package store holds the client's process-wide application state.
package store

import (
	"sync"

	"marketplace/internal/domain/entity"
)

// ConversationStore is the shared, ordered conversation list. Upsert is the
// only mutation; readers always get copies.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations []entity.Conversation
	index         map[string]int
	listeners     map[int]func()
	nextListener  int
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		index:     make(map[string]int),
		listeners: make(map[int]func()),
	}
}

// Upsert inserts each conversation or merges it into the existing entry with
// the same id. Merging appends messages whose ids are not present yet and
// refreshes the peer profile; a conversation id never appears twice.
func (s *ConversationStore) Upsert(conversations ...entity.Conversation) {
	s.mu.Lock()
	for _, incoming := range conversations {
		if incoming.ID == "" {
			continue
		}

		pos, exists := s.index[incoming.ID]
		if !exists {
			s.index[incoming.ID] = len(s.conversations)
			s.conversations = append(s.conversations, entity.Conversation{
				ID:          incoming.ID,
				PeerProfile: incoming.PeerProfile,
				Chats:       appendNew(nil, incoming.Chats),
			})
			continue
		}

		current := &s.conversations[pos]
		if incoming.PeerProfile.ID != "" {
			current.PeerProfile = incoming.PeerProfile
		}
		current.Chats = appendNew(current.Chats, incoming.Chats)
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func appendNew(existing, incoming []entity.ChatMessage) []entity.ChatMessage {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}
	for _, m := range incoming {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		existing = append(existing, m)
	}
	return existing
}

func (s *ConversationStore) Get(id string) (entity.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return entity.Conversation{}, false
	}
	return clone(s.conversations[pos]), true
}

func (s *ConversationStore) All() []entity.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = clone(c)
	}
	return out
}

func (s *ConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// Subscribe registers fn to run after every Upsert. The returned func removes it.
func (s *ConversationStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *ConversationStore) snapshotListeners() []func() {
	out := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func clone(c entity.Conversation) entity.Conversation {
	c.Chats = append([]entity.ChatMessage(nil), c.Chats...)
	return c
}
