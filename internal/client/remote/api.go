package remote

import (
	"context"
	"net/http"
	"net/url"

	"marketplace/internal/domain/entity"
)

// API is the set of marketplace endpoints the product screens call.
type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// ResolveConversation returns the conversation id between the signed-in user
// and peerID, creating it server side if needed.
func (a *API) ResolveConversation(ctx context.Context, peerID string) (string, bool) {
	res, ok := Run[struct {
		ConversationID string `json:"conversationId"`
	}](ctx, a.client, http.MethodGet, "/conversation/with/"+url.PathEscape(peerID))
	if !ok || res.ConversationID == "" {
		return "", false
	}
	return res.ConversationID, true
}

func (a *API) FetchProduct(ctx context.Context, id string) (*entity.Product, bool) {
	res, ok := Run[struct {
		Product *entity.Product `json:"product"`
	}](ctx, a.client, http.MethodGet, "/product/detail/"+url.PathEscape(id))
	if !ok || res.Product == nil {
		return nil, false
	}
	return res.Product, true
}

// DeleteProduct returns the server confirmation message.
func (a *API) DeleteProduct(ctx context.Context, id string) (string, bool) {
	res, ok := Run[struct {
		Message string `json:"message"`
	}](ctx, a.client, http.MethodDelete, "/product/"+url.PathEscape(id))
	if !ok || res.Message == "" {
		return "", false
	}
	return res.Message, true
}

func (a *API) LatestProducts(ctx context.Context) ([]entity.LatestProduct, bool) {
	res, ok := Run[struct {
		Products []entity.LatestProduct `json:"products"`
	}](ctx, a.client, http.MethodGet, "/product/latest")
	if !ok {
		return nil, false
	}
	return res.Products, true
}
