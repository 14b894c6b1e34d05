package hotel_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-travel-client/hotel"
	"github.com/jrsteele09/go-travel-client/internal/apitest"
	"github.com/jrsteele09/go-travel-client/restclient"
	"github.com/jrsteele09/go-travel-client/storage/storefakes"
	"github.com/jrsteele09/go-travel-client/token"
)

func setup(t *testing.T) (*apitest.Server, *hotel.Service, *token.Store) {
	t.Helper()
	backend := apitest.NewServer(t)
	tokens, err := token.NewStore(storefakes.NewFakeStore())
	require.NoError(t, err)
	client, err := restclient.New(backend.URL(), tokens)
	require.NoError(t, err)
	service, err := hotel.NewService(client)
	require.NoError(t, err)
	return backend, service, tokens
}

func TestDetail(t *testing.T) {
	backend, service, _ := setup(t)
	backend.HandleResult(http.MethodGet, "/public/hotels/12", hotel.Detail{
		ID:         12,
		Name:       "Sunrise Bay Resort",
		StarRating: 5,
		Rooms: []hotel.Room{
			{ID: 301, Name: "Deluxe Ocean View", Price: 1_000_000, Capacity: 2, IsAvailable: true},
		},
	})

	detail, err := service.Detail(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, "Sunrise Bay Resort", detail.Name)
	require.Len(t, detail.Rooms, 1)
}

func TestDetailSanitizesDescription(t *testing.T) {
	backend, service, _ := setup(t)
	backend.HandleResult(http.MethodGet, "/public/hotels/12", hotel.Detail{
		ID:          12,
		Name:        "Sunrise Bay Resort",
		Description: `<p>Beachfront rooms</p><script>alert("x")</script>`,
		Reviews: []hotel.Review{
			{ID: 1, Comment: `Great stay <img src=x onerror=alert(1)>`},
		},
	})

	detail, err := service.Detail(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, "<p>Beachfront rooms</p>", detail.Description)
	require.Equal(t, "Great stay ", detail.Reviews[0].Comment)
}

func TestDetailNotFound(t *testing.T) {
	backend, service, _ := setup(t)
	backend.HandleStatus(http.MethodGet, "/public/hotels/99", http.StatusNotFound, "hotel not found")

	_, err := service.Detail(context.Background(), 99)
	require.True(t, restclient.IsStatus(err, http.StatusNotFound))
}

func TestToggleFavoriteSendsBearer(t *testing.T) {
	backend, service, tokens := setup(t)
	require.NoError(t, tokens.SaveTokens("AT1", "RT1"))
	backend.Handle(http.MethodPost, "/public/favorites/hotels/12", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer AT1", r.Header.Get("Authorization"))
		apitest.WriteResult(t, w, map[string]bool{"isFavorite": true})
	})

	favorited, err := service.ToggleFavorite(context.Background(), 12)
	require.NoError(t, err)
	require.True(t, favorited)
}

func TestIsFavorite(t *testing.T) {
	backend, service, _ := setup(t)
	backend.HandleResult(http.MethodGet, "/public/favorites/hotels/12/check", map[string]bool{"isFavorite": false})

	favorited, err := service.IsFavorite(context.Background(), 12)
	require.NoError(t, err)
	require.False(t, favorited)
}

func TestFavoriteCount(t *testing.T) {
	backend, service, _ := setup(t)
	backend.HandleResult(http.MethodGet, "/public/favorites/hotels/count", 3)

	count, err := service.FavoriteCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)
}
