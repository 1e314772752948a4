package handler

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/middleware"
	"marketplace/internal/usecase"
	"marketplace/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type conversationWithRequest struct {
	PeerID string `param:"peerId" validate:"required"`
}

// GetConversationWith serves GET /conversation/with/:peerId
func (h *ChatHandler) GetConversationWith(c echo.Context) error {
	var req conversationWithRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	conversationID, err := h.chatUseCase.GetOrCreateConversation(c.Request().Context(), middleware.UserID(c), req.PeerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]string{"conversationId": conversationID})
}
