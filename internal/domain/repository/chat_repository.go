package repository

import (
	"context"

	"marketplace/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// FindDirect returns the direct chat between the two users or a NOT_FOUND error.
	FindDirect(ctx context.Context, userID1, userID2 string) (*entity.Chat, error)
	Touch(ctx context.Context, id string) error
}
