package entity

import "time"

// ChatMessage is the client-side message shape. Messages created locally before
// the server has seen them carry a client generated ID.
type ChatMessage struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Time   string  `json:"time"`
	Image  string  `json:"image,omitempty"`
	Viewed bool    `json:"viewed"`
	User   Profile `json:"user"`
}

// Conversation is an entry of the client conversation list.
type Conversation struct {
	ID          string        `json:"id"`
	Chats       []ChatMessage `json:"chats"`
	PeerProfile Profile       `json:"peerProfile"`
}

// Chat is the server record of a direct conversation between two users.
type Chat struct {
	ID            string    `json:"id" firestore:"id"`
	Participants  []string  `json:"participants" firestore:"participants"`
	Type          string    `json:"type" firestore:"type"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
}

const ChatTypeDirect = "direct"

func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
