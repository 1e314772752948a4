package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/client/navigation"
	"marketplace/internal/client/notify"
	"marketplace/internal/client/store"
	"marketplace/internal/domain/entity"
)

type fakeAPI struct {
	product   *entity.Product
	deleteMsg string
	deleteOK  bool
	deleted   []string
	onDelete  func()
}

func (a *fakeAPI) FetchProduct(ctx context.Context, id string) (*entity.Product, bool) {
	if a.product == nil || a.product.ID != id {
		return nil, false
	}
	p := *a.product
	return &p, true
}

func (a *fakeAPI) DeleteProduct(ctx context.Context, id string) (string, bool) {
	a.deleted = append(a.deleted, id)
	if a.onDelete != nil {
		a.onDelete()
	}
	return a.deleteMsg, a.deleteOK
}

type fakeSession struct {
	profile *entity.Profile
}

func (s *fakeSession) Profile() *entity.Profile { return s.profile }
func (s *fakeSession) Token() string { return "" }

type fakeChat struct {
	calls  int
	onCall func()
}

func (c *fakeChat) InitiateChat(ctx context.Context, product *entity.Product, user *entity.Profile) {
	c.calls++
	if c.onCall != nil {
		c.onCall()
	}
}

type fakeConfirmer struct {
	answer  bool
	prompts []Prompt
}

func (c *fakeConfirmer) Confirm(ctx context.Context, prompt Prompt) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type fixture struct {
	api       *fakeAPI
	session   *fakeSession
	chat      *fakeChat
	listings  *store.ListingStore
	nav       *navigation.Stack
	notifier  *notify.Recorder
	confirmer *fakeConfirmer
}

func newFixture() *fixture {
	listings := store.NewListingStore()
	listings.Set([]entity.LatestProduct{{ID: "p1"}, {ID: "p2"}})

	return &fixture{
		api: &fakeAPI{
			product:   product("p1", "s1"),
			deleteMsg: "Product has been removed successfully.",
			deleteOK:  true,
		},
		session:   &fakeSession{profile: &entity.Profile{ID: "u1"}},
		chat:      &fakeChat{},
		listings:  listings,
		nav:       navigation.NewStack(navigation.Route{Name: navigation.Home}, navigation.Route{Name: navigation.SingleProduct}),
		notifier:  &notify.Recorder{},
		confirmer: &fakeConfirmer{answer: true},
	}
}

func (f *fixture) screen(params navigation.SingleProductParams) *ProductDetail {
	return NewProductDetail(Deps{
		API:       f.api,
		Session:   f.session,
		Chat:      f.chat,
		Listings:  f.listings,
		Navigator: f.nav,
		Notifier:  f.notifier,
		Confirmer: f.confirmer,
	}, params)
}

func product(id, sellerID string) *entity.Product {
	return &entity.Product{ID: id, Name: "Xe đạp", Price: 150000, Seller: entity.Profile{ID: sellerID}}
}

func TestLoad_FetchesByID(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{ID: "p1"})

	assert.Nil(t, s.Product())
	s.Load(context.Background())

	require.NotNil(t, s.Product())
	assert.Equal(t, "s1", s.Product().Seller.ID)
}

func TestLoad_PassedProductShownWhenFetchFails(t *testing.T) {
	f := newFixture()
	f.api.product = nil
	s := f.screen(navigation.SingleProductParams{Product: product("p1", "s1"), ID: "p1"})

	s.Load(context.Background())

	require.NotNil(t, s.Product())
	assert.Equal(t, "p1", s.Product().ID)
}

func TestLoad_FeedsSlider(t *testing.T) {
	f := newFixture()
	f.api.product.Images = []string{"a.png", "b.png"}
	s := f.screen(navigation.SingleProductParams{ID: "p1"})

	assert.False(t, s.Slider().Visible())
	s.Load(context.Background())

	assert.True(t, s.Slider().Visible())
	assert.Equal(t, "1/2", s.Slider().Indicator())
}

func TestIsOwner(t *testing.T) {
	tests := []struct {
		name    string
		profile *entity.Profile
		want    bool
	}{
		{name: "seller", profile: &entity.Profile{ID: "s1"}, want: true},
		{name: "someone else", profile: &entity.Profile{ID: "u1"}, want: false},
		{name: "signed out", profile: nil, want: false},
		{name: "empty id", profile: &entity.Profile{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.session.profile = tt.profile
			s := f.screen(navigation.SingleProductParams{ID: "p1"})
			s.Load(context.Background())

			assert.Equal(t, tt.want, s.IsOwner())
			assert.Equal(t, Actions{OptionMenu: tt.want, Chat: !tt.want}, s.Actions())
		})
	}
}

func TestIsOwner_NoProduct(t *testing.T) {
	f := newFixture()
	f.session.profile = &entity.Profile{ID: "s1"}
	s := f.screen(navigation.SingleProductParams{})

	assert.False(t, s.IsOwner())
}

func TestIsOwner_FollowsSession(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{ID: "p1"})
	s.Load(context.Background())
	require.False(t, s.IsOwner())

	f.session.profile = &entity.Profile{ID: "s1"}

	assert.True(t, s.IsOwner())
}

func TestOpenMenu_OwnerOnly(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{ID: "p1"})
	s.Load(context.Background())

	s.OpenMenu()
	assert.False(t, s.MenuOpen())

	f.session.profile = &entity.Profile{ID: "s1"}
	s.OpenMenu()
	assert.True(t, s.MenuOpen())
}

func TestConfirmDelete_Success(t *testing.T) {
	f := newFixture()
	f.session.profile = &entity.Profile{ID: "s1"}
	s := f.screen(navigation.SingleProductParams{ID: "p1"})
	s.Load(context.Background())

	var busyDuringRequest bool
	f.api.onDelete = func() { busyDuringRequest = s.Busy() }

	s.ConfirmDelete(context.Background())

	assert.True(t, busyDuringRequest)
	assert.False(t, s.Busy())
	assert.Equal(t, []string{"p1"}, f.api.deleted)
	assert.False(t, f.listings.Contains("p1"))
	assert.True(t, f.listings.Contains("p2"))
	assert.Equal(t, []notify.Notification{
		{Message: "Product has been removed successfully.", Type: notify.Success},
	}, f.notifier.All())
	current, _ := f.nav.Current()
	assert.Equal(t, navigation.Listings, current.Name)
}

func TestConfirmDelete_Failure(t *testing.T) {
	f := newFixture()
	f.api.deleteOK = false
	f.api.deleteMsg = ""
	s := f.screen(navigation.SingleProductParams{ID: "p1"})

	var busyDuringRequest bool
	f.api.onDelete = func() { busyDuringRequest = s.Busy() }

	s.ConfirmDelete(context.Background())

	assert.True(t, busyDuringRequest)
	assert.False(t, s.Busy())
	assert.True(t, f.listings.Contains("p1"))
	assert.Empty(t, f.notifier.All())
	current, _ := f.nav.Current()
	assert.Equal(t, navigation.SingleProduct, current.Name)
}

func TestConfirmDelete_WithoutProductID(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{})

	s.ConfirmDelete(context.Background())

	assert.Empty(t, f.api.deleted)
	assert.False(t, s.Busy())
}

func TestOnDeletePress_AsksFirst(t *testing.T) {
	f := newFixture()
	f.confirmer.answer = false
	s := f.screen(navigation.SingleProductParams{ID: "p1"})

	s.OnDeletePress(context.Background())

	require.Len(t, f.confirmer.prompts, 1)
	assert.Equal(t, "Are you sure?", f.confirmer.prompts[0].Title)
	assert.Equal(t, "This action will remove this product permanently", f.confirmer.prompts[0].Message)
	assert.Empty(t, f.api.deleted)

	f.confirmer.answer = true
	s.OnDeletePress(context.Background())
	assert.Equal(t, []string{"p1"}, f.api.deleted)
}

func TestSelectOption(t *testing.T) {
	f := newFixture()
	f.session.profile = &entity.Profile{ID: "s1"}
	s := f.screen(navigation.SingleProductParams{ID: "p1"})
	s.Load(context.Background())
	s.OpenMenu()

	s.SelectOption(context.Background(), OptionEdit)

	assert.False(t, s.MenuOpen())
	current, _ := f.nav.Current()
	assert.Equal(t, navigation.EditProduct, current.Name)
	params, ok := current.Params.(navigation.EditProductParams)
	require.True(t, ok)
	assert.Equal(t, "p1", params.Product.ID)

	s.SelectOption(context.Background(), OptionDelete)
	assert.Equal(t, []string{"p1"}, f.api.deleted)
}

func TestOnEditPress_WithoutProduct(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{})

	s.OnEditPress()

	current, _ := f.nav.Current()
	assert.Equal(t, navigation.SingleProduct, current.Name)
}

func TestOnChatPress(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{ID: "p1"})
	s.Load(context.Background())

	var fetching bool
	f.chat.onCall = func() { fetching = s.FetchingChatID() }

	s.OnChatPress(context.Background())

	assert.Equal(t, 1, f.chat.calls)
	assert.True(t, fetching)
	assert.False(t, s.FetchingChatID())
}

func TestOnChatPress_RequiresProductAndUser(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{ID: "p1"})

	s.OnChatPress(context.Background())
	assert.Zero(t, f.chat.calls)

	s.Load(context.Background())
	f.session.profile = nil
	s.OnChatPress(context.Background())
	assert.Zero(t, f.chat.calls)
}

func TestClose_IgnoresLateLoad(t *testing.T) {
	f := newFixture()
	s := f.screen(navigation.SingleProductParams{ID: "p1"})

	s.Close()
	s.Load(context.Background())

	assert.Nil(t, s.Product())
}
