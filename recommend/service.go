// Package recommend calls the recommendation service, which lives on its own
// base URL and answers bare JSON rather than the TripGo envelope. Failures
// never propagate: a personalised shelf that fails to load renders empty.
package recommend

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/restclient"
	"github.com/jrsteele09/go-travel-client/token"
)

// defaultUserID is used when nobody is signed in; the service answers with
// non-personalised picks for it.
const defaultUserID = 1

// HotelRecommendation is one scored hotel from the recommender.
type HotelRecommendation struct {
	HotelID       int64   `json:"hotel_id"`
	HybridScore   float64 `json:"hybrid_score"`
	ContentScore  float64 `json:"content_score"`
	CollabScore   float64 `json:"collab_score"`
	SourceHotels  []int64 `json:"source_hotels,omitempty"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	StarRating    int     `json:"star_rating"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
	Location      string  `json:"location"`
	Thumbnail     string  `json:"thumbnail"`
	MinRoomPrice  float64 `json:"min_room_price"`
	Favorite      bool    `json:"favorite,omitempty"`
}

type recommendationResponse struct {
	Recommendations []HotelRecommendation `json:"recommendations"`
	Message         string                `json:"message,omitempty"`
}

// Service is the recommendation client. It carries its own rest client since
// the recommender has no refresh endpoint; the bearer header still rides
// along when a token is stored.
type Service struct {
	client *restclient.Client
	tokens *token.Store
}

// NewService creates a Service against the recommender base URL.
func NewService(client *restclient.Client, tokens *token.Store) (*Service, error) {
	if client == nil {
		return nil, errors.New("[recommend.NewService] rest client is required")
	}
	if tokens == nil {
		return nil, errors.New("[recommend.NewService] token store is required")
	}
	return &Service{client: client, tokens: tokens}, nil
}

// HotelRecommendations fetches personalised hotel picks. Pass userID 0 to
// resolve it from the cached user info, falling back to the anonymous
// default. Every failure degrades to an empty list.
func (s *Service) HotelRecommendations(ctx context.Context, userID int64) []HotelRecommendation {
	if userID == 0 {
		if user, ok := s.tokens.UserInfo(); ok {
			userID = user.AccountID
		} else {
			userID = defaultUserID
		}
	}

	path := "/recommend/smart/" + strconv.FormatInt(userID, 10) + "/"
	body, err := s.client.Get(ctx, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("recommendations fetch failed, returning empty list")
		return []HotelRecommendation{}
	}

	var response recommendationResponse
	if err := json.Unmarshal(body, &response); err != nil {
		log.Error().Err(err).Msg("recommendations response malformed, returning empty list")
		return []HotelRecommendation{}
	}
	if response.Recommendations == nil {
		return []HotelRecommendation{}
	}
	return response.Recommendations
}
