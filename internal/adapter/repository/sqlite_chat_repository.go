package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/pkg/errors"
)

type sqliteChatRepository struct {
	db *sql.DB
}

func NewSQLiteChatRepository(db *sql.DB) repository.ChatRepository {
	return &sqliteChatRepository{db: db}
}

// orderedPair stores direct chats with the smaller id first so that a pair of
// users maps to exactly one row.
func orderedPair(userID1, userID2 string) (string, string) {
	if userID2 < userID1 {
		return userID2, userID1
	}
	return userID1, userID2
}

// Create inserts the chat. When a direct chat between the same participants
// already exists, chat is overwritten with the stored one.
func (r *sqliteChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if len(chat.Participants) != 2 {
		return errors.BadRequest("A direct chat needs exactly two participants", nil)
	}
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.Type == "" {
		chat.Type = entity.ChatTypeDirect
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.LastMessageAt.IsZero() {
		chat.LastMessageAt = now
	}

	userA, userB := orderedPair(chat.Participants[0], chat.Participants[1])
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chats (id, user_a, user_b, type, created_at, updated_at, last_message_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_a, user_b, type) DO NOTHING`,
		chat.ID, userA, userB, chat.Type, now.UnixMilli(), now.UnixMilli(), chat.LastMessageAt.UnixMilli(),
	)
	if err != nil {
		return errors.Internal("Failed to create chat", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		existing, err := r.FindDirect(ctx, userA, userB)
		if err != nil {
			return err
		}
		*chat = *existing
	}
	return nil
}

func (r *sqliteChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_a, user_b, type, created_at, updated_at, last_message_at FROM chats WHERE id = ?`, id)
	return r.scan(row)
}

func (r *sqliteChatRepository) FindDirect(ctx context.Context, userID1, userID2 string) (*entity.Chat, error) {
	userA, userB := orderedPair(userID1, userID2)
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_a, user_b, type, created_at, updated_at, last_message_at
		 FROM chats WHERE user_a = ? AND user_b = ? AND type = ?`,
		userA, userB, entity.ChatTypeDirect,
	)
	return r.scan(row)
}

func (r *sqliteChatRepository) Touch(ctx context.Context, id string) error {
	now := time.Now().UnixMilli()
	res, err := r.db.ExecContext(ctx,
		`UPDATE chats SET updated_at = ?, last_message_at = ? WHERE id = ?`, now, now, id)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NotFound("Chat", nil)
	}
	return nil
}

func (r *sqliteChatRepository) scan(row *sql.Row) (*entity.Chat, error) {
	var (
		chat                                entity.Chat
		userA, userB                        string
		createdAt, updatedAt, lastMessageAt int64
	)

	err := row.Scan(&chat.ID, &userA, &userB, &chat.Type, &createdAt, &updatedAt, &lastMessageAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Chat", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get chat", err)
	}

	chat.Participants = []string{userA, userB}
	chat.CreatedAt = time.UnixMilli(createdAt)
	chat.UpdatedAt = time.UnixMilli(updatedAt)
	chat.LastMessageAt = time.UnixMilli(lastMessageAt)
	return &chat, nil
}
