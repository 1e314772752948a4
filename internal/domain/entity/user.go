package entity

// Profile identifies a marketplace user. It is the seller reference on a
// product, the author of a chat message and the peer of a conversation.
type Profile struct {
	ID     string `json:"id" firestore:"id" validate:"required"`
	Name   string `json:"name" firestore:"name"`
	Avatar string `json:"avatar,omitempty" firestore:"avatar,omitempty"`
}
