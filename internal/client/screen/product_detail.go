// Package screen holds the headless state of the product detail screen.
package screen

import (
	"context"
	"sync"

	"marketplace/internal/client/carousel"
	"marketplace/internal/client/navigation"
	"marketplace/internal/client/notify"
	"marketplace/internal/client/session"
	"marketplace/internal/domain/entity"
)

const (
	OptionEdit   = "Edit"
	OptionDelete = "Delete"
)

// MenuOptions are the owner actions in the order the option menu lists them.
var MenuOptions = []string{OptionEdit, OptionDelete}

// ProductAPI is the part of the marketplace API this screen calls.
type ProductAPI interface {
	FetchProduct(ctx context.Context, id string) (*entity.Product, bool)
	DeleteProduct(ctx context.Context, id string) (string, bool)
}

type ChatStarter interface {
	InitiateChat(ctx context.Context, product *entity.Product, user *entity.Profile)
}

type ListingRemover interface {
	Remove(id string)
}

// Prompt is a two-button confirmation dialog.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) bool
}

var deletePrompt = Prompt{
	Title:        "Are you sure?",
	Message:      "This action will remove this product permanently",
	ConfirmLabel: "Delete",
	CancelLabel:  "Cancel",
}

type Deps struct {
	API       ProductAPI
	Session   session.Provider
	Chat      ChatStarter
	Listings  ListingRemover
	Navigator navigation.Navigator
	Notifier  notify.Notifier
	Confirmer Confirmer
}

// Actions tells the view which controls to render.
type Actions struct {
	OptionMenu bool
	Chat       bool
}

type ProductDetail struct {
	deps   Deps
	params navigation.SingleProductParams
	slider *carousel.Slider

	mu             sync.Mutex
	product        *entity.Product
	busy           bool
	fetchingChatID bool
	menuOpen       bool
	closed         bool
}

func NewProductDetail(deps Deps, params navigation.SingleProductParams) *ProductDetail {
	return &ProductDetail{
		deps:   deps,
		params: params,
		slider: carousel.NewSlider(nil),
	}
}

// Load shows the product passed with the route and refreshes it from the API
// when an id was passed.
func (s *ProductDetail) Load(ctx context.Context) {
	if s.params.Product != nil {
		s.setProduct(s.params.Product)
	}

	if s.params.ID == "" {
		return
	}
	if product, ok := s.deps.API.FetchProduct(ctx, s.params.ID); ok {
		s.setProduct(product)
	}
}

func (s *ProductDetail) setProduct(product *entity.Product) {
	p := *product

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.product = &p
	s.slider.SetImages(p.Gallery())
}

// Slider is the image carousel of the product on screen.
func (s *ProductDetail) Slider() *carousel.Slider {
	return s.slider
}

// Product returns a copy of the product on screen, or nil before it is loaded.
func (s *ProductDetail) Product() *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.product == nil {
		return nil
	}
	p := *s.product
	return &p
}

// IsOwner reports whether the signed-in user sells the product on screen. It
// is evaluated on every call so a refreshed product or a new session is
// picked up immediately.
func (s *ProductDetail) IsOwner() bool {
	profile := s.deps.Session.Profile()
	if profile == nil {
		return false
	}
	return s.Product().IsSoldBy(profile.ID)
}

func (s *ProductDetail) Actions() Actions {
	owner := s.IsOwner()
	return Actions{
		OptionMenu: owner,
		Chat:       !owner,
	}
}

func (s *ProductDetail) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *ProductDetail) FetchingChatID() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchingChatID
}

func (s *ProductDetail) MenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuOpen
}

// OpenMenu shows the option menu; only the owner has one.
func (s *ProductDetail) OpenMenu() {
	if !s.IsOwner() {
		return
	}
	s.mu.Lock()
	s.menuOpen = true
	s.mu.Unlock()
}

func (s *ProductDetail) CloseMenu() {
	s.mu.Lock()
	s.menuOpen = false
	s.mu.Unlock()
}

// SelectOption handles a tap in the option menu.
func (s *ProductDetail) SelectOption(ctx context.Context, name string) {
	s.CloseMenu()

	switch name {
	case OptionDelete:
		s.OnDeletePress(ctx)
	case OptionEdit:
		s.OnEditPress()
	}
}

func (s *ProductDetail) OnEditPress() {
	product := s.Product()
	if product == nil {
		return
	}
	s.deps.Navigator.Navigate(navigation.Route{
		Name:   navigation.EditProduct,
		Params: navigation.EditProductParams{Product: *product},
	})
}

// OnDeletePress asks for confirmation and deletes on "Delete".
func (s *ProductDetail) OnDeletePress(ctx context.Context) {
	if s.deps.Confirmer == nil || !s.deps.Confirmer.Confirm(ctx, deletePrompt) {
		return
	}
	s.ConfirmDelete(ctx)
}

func (s *ProductDetail) productID() string {
	if s.params.Product != nil && s.params.Product.ID != "" {
		return s.params.Product.ID
	}
	if s.params.ID != "" {
		return s.params.ID
	}
	if p := s.Product(); p != nil {
		return p.ID
	}
	return ""
}

// ConfirmDelete deletes the product. Busy is held for the duration of the
// request and released on every path.
func (s *ProductDetail) ConfirmDelete(ctx context.Context) {
	id := s.productID()
	if id == "" {
		return
	}

	message, ok := s.deleteProduct(ctx, id)
	if !ok {
		return
	}

	s.deps.Listings.Remove(id)
	s.deps.Notifier.Show(notify.Notification{Message: message, Type: notify.Success})
	s.deps.Navigator.Navigate(navigation.Route{Name: navigation.Listings})
}

func (s *ProductDetail) deleteProduct(ctx context.Context, id string) (string, bool) {
	s.setBusy(true)
	defer s.setBusy(false)

	return s.deps.API.DeleteProduct(ctx, id)
}

func (s *ProductDetail) setBusy(v bool) {
	s.mu.Lock()
	s.busy = v
	s.mu.Unlock()
}

// OnChatPress starts a conversation with the seller.
func (s *ProductDetail) OnChatPress(ctx context.Context) {
	product := s.Product()
	profile := s.deps.Session.Profile()
	if product == nil || profile == nil {
		return
	}

	s.setFetchingChatID(true)
	defer s.setFetchingChatID(false)

	s.deps.Chat.InitiateChat(ctx, product, profile)
}

func (s *ProductDetail) setFetchingChatID(v bool) {
	s.mu.Lock()
	s.fetchingChatID = v
	s.mu.Unlock()
}

// Close marks the screen as dismissed. Requests still in flight complete
// without touching the screen's product.
func (s *ProductDetail) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
