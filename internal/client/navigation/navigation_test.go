package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(routes []Route) []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.Name
	}
	return out
}

func TestStack_NavigatePushesAndFocuses(t *testing.T) {
	s := NewStack(Route{Name: Home})

	s.Navigate(Route{Name: SingleProduct})
	s.Navigate(Route{Name: EditProduct})
	s.Navigate(Route{Name: SingleProduct, Params: SingleProductParams{ID: "p2"}})

	assert.Equal(t, []string{Home, SingleProduct}, names(s.Routes()))
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, SingleProductParams{ID: "p2"}, current.Params)
}

func TestStack_NavigateOnEmptyStack(t *testing.T) {
	s := NewStack()

	s.Navigate(Route{Name: Listings})

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, Listings, current.Name)
}

func TestStack_Reset(t *testing.T) {
	s := NewStack(Route{Name: Home}, Route{Name: SingleProduct})

	s.Reset(1, []Route{
		{Name: Home},
		{Name: ChatWindow, Params: ChatWindowParams{ConversationID: "c9"}},
	})

	assert.Equal(t, []string{Home, ChatWindow}, names(s.Routes()))
	current, _ := s.Current()
	assert.Equal(t, ChatWindowParams{ConversationID: "c9"}, current.Params)

	assert.True(t, s.GoBack())
	current, _ = s.Current()
	assert.Equal(t, Home, current.Name)
	assert.False(t, s.GoBack())
}

func TestStack_ResetDropsRoutesAfterIndex(t *testing.T) {
	s := NewStack()

	s.Reset(0, []Route{{Name: Home}, {Name: Listings}})

	assert.Equal(t, []string{Home}, names(s.Routes()))
}

func TestStack_ResetEmpty(t *testing.T) {
	s := NewStack(Route{Name: Home})

	s.Reset(0, nil)

	_, ok := s.Current()
	assert.False(t, ok)
}
