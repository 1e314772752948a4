package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/event"
	"marketplace/internal/domain/repository"
	"marketplace/internal/infrastructure/ratelimit"
	"marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	notifier    UserNotifier
	rateLimiter Limiter
	validate    *validator.Validate
}

func NewChatUseCase(chatRepo repository.ChatRepository, notifier UserNotifier, rateLimiter Limiter) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		notifier:    notifier,
		rateLimiter: rateLimiter,
		validate:    validator.New(),
	}
}

// SetNotifier attaches the realtime hub once it exists; the hub itself needs the
// use case to relay inbound events.
func (uc *ChatUseCase) SetNotifier(notifier UserNotifier) {
	uc.notifier = notifier
}

// GetOrCreateConversation returns the id of the direct chat between userID and
// peerID, creating it on first contact.
func (uc *ChatUseCase) GetOrCreateConversation(ctx context.Context, userID, peerID string) (string, error) {
	if peerID == "" {
		return "", errors.BadRequest("Invalid peer id", nil)
	}
	if userID == peerID {
		logger.Warn("GetOrCreateConversation Error: User %s attempted to create chat with themselves", userID)
		return "", errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	if !uc.rateLimiter.Allow(userID, ratelimit.ActionCreateChat) {
		logger.Warn("GetOrCreateConversation Rate Limited: User %s", userID)
		return "", errors.TooManyRequests("Rate limit exceeded. Please wait before starting another chat")
	}

	existing, err := uc.chatRepo.FindDirect(ctx, userID, peerID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Error("GetOrCreateConversation Error: Failed to search for existing chat: %v", err)
		return "", err
	}

	chat := &entity.Chat{
		Participants: []string{userID, peerID},
		Type:         entity.ChatTypeDirect,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		logger.Error("GetOrCreateConversation Error: Failed to create chat: %v", err)
		return "", err
	}

	logger.Info("GetOrCreateConversation: Created chat %s between %s and %s", chat.ID, userID, peerID)
	return chat.ID, nil
}

// RelayMessage forwards a send_message event from senderID to the recipient's
// live connections. It reports whether the recipient was online.
func (uc *ChatUseCase) RelayMessage(ctx context.Context, senderID string, payload event.SendMessagePayload) (bool, error) {
	if err := uc.validate.Struct(payload); err != nil {
		return false, errors.BadRequest("Invalid send_message payload", err)
	}
	if payload.Message.User.ID != senderID {
		return false, errors.Forbidden("Message author does not match the connection", nil)
	}

	if !uc.rateLimiter.Allow(senderID, ratelimit.ActionSendMessage) {
		logger.Warn("RelayMessage Rate Limited: User %s", senderID)
		return false, errors.TooManyRequests("Rate limit exceeded. Please slow down")
	}

	chat, err := uc.chatRepo.GetByID(ctx, payload.ConversationID)
	if err != nil {
		return false, err
	}
	if !chat.HasParticipant(senderID) || !chat.HasParticipant(payload.To) {
		return false, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	if err := uc.chatRepo.Touch(ctx, chat.ID); err != nil {
		logger.Warn("RelayMessage Warning: Failed to touch chat %s: %v", chat.ID, err)
	}

	frame, err := event.Encode(event.ChatMessage, payload)
	if err != nil {
		return false, errors.Internal("Failed to encode message", err)
	}

	if uc.notifier == nil {
		return false, nil
	}
	return uc.notifier.SendToUser(payload.To, frame), nil
}
