// Package hotel wraps the hotel detail and favorites endpoints. Hotel
// descriptions arrive from the backend as HTML and are sanitized before
// being handed to the presentation layer.
package hotel

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/restclient"
)

const (
	detailPath        = "/public/hotels/"
	favoritesPath     = "/public/favorites/hotels"
	favoriteCountPath = "/public/favorites/hotels/count"
)

// Amenity is a hotel amenity.
type Amenity struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	IsProminent bool   `json:"isProminent"`
}

// Image is a hotel gallery image.
type Image struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

// Room is a bookable room on the detail page.
type Room struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	Quantity    int     `json:"quantity"`
	Area        float64 `json:"area"`
	IsAvailable bool    `json:"isAvailable"`
}

// Review is a guest review.
type Review struct {
	ID                int64   `json:"id"`
	CreatedAt         string  `json:"createdAt"`
	CleanlinessRating float64 `json:"cleanlinessRating"`
	ComfortRating     float64 `json:"comfortRating"`
	LocationRating    float64 `json:"locationRating"`
	StaffRating       float64 `json:"staffRating"`
	FacilitiesRating  float64 `json:"facilitiesRating"`
	AverageRating     float64 `json:"averageRating"`
	Comment           string  `json:"comment"`
}

// Location is the hotel's location record.
type Location struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Thumbnail string `json:"thumbnail"`
	Type      string `json:"type"`
}

// Detail is the full hotel detail record.
type Detail struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Description       string    `json:"description"`
	StarRating        int       `json:"starRating"`
	Type              string    `json:"type"` // HOTEL, RESORT, HOSTEL, VILLA or APARTMENT
	CheckInTime       string    `json:"checkInTime"`
	CheckOutTime      string    `json:"checkOutTime"`
	ContactPhone      string    `json:"contactPhone"`
	ContactEmail      string    `json:"contactEmail"`
	AverageRating     float64   `json:"averageRating"`
	TotalReviews      int       `json:"totalReviews"`
	CleanlinessScore  float64   `json:"cleanlinessScore"`
	ComfortScore      float64   `json:"comfortScore"`
	LocationScore     float64   `json:"locationScore"`
	FacilitiesScore   float64   `json:"facilitiesScore"`
	StaffScore        float64   `json:"staffScore"`
	PricePerNightFrom float64   `json:"pricePerNightFrom"`
	PriceRange        string    `json:"priceRange"`
	DesignStyle       string    `json:"designStyle"`
	Location          Location  `json:"location"`
	Amenities         []Amenity `json:"amenities"`
	Images            []Image   `json:"images"`
	Rooms             []Room    `json:"rooms"`
	Reviews           []Review  `json:"reviews"`
}

// Service is the hotel domain service.
type Service struct {
	client    *restclient.Client
	sanitizer *Sanitizer
}

// NewService creates a Service.
func NewService(client *restclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[hotel.NewService] rest client is required")
	}
	return &Service{client: client, sanitizer: NewSanitizer()}, nil
}

// Detail fetches a hotel by id. The description and review comments are
// sanitized before they come back.
func (s *Service) Detail(ctx context.Context, hotelID int64) (Detail, error) {
	path := detailPath + strconv.FormatInt(hotelID, 10)
	detail, err := restclient.GetResult[Detail](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("hotel_id", hotelID).Msg("hotel detail fetch failed")
		return Detail{}, err
	}
	detail.Description = s.sanitizer.Sanitize(detail.Description)
	for i := range detail.Reviews {
		detail.Reviews[i].Comment = s.sanitizer.Sanitize(detail.Reviews[i].Comment)
	}
	return detail, nil
}

type favoriteResult struct {
	IsFavorite bool `json:"isFavorite"`
}

// ToggleFavorite flips the favorite flag for a hotel and returns the new
// state.
func (s *Service) ToggleFavorite(ctx context.Context, hotelID int64) (bool, error) {
	path := favoritesPath + "/" + strconv.FormatInt(hotelID, 10)
	result, err := restclient.PostResult[favoriteResult](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("hotel_id", hotelID).Msg("favorite toggle failed")
		return false, err
	}
	return result.IsFavorite, nil
}

// IsFavorite reports whether a hotel is favorited by the signed-in user.
func (s *Service) IsFavorite(ctx context.Context, hotelID int64) (bool, error) {
	path := favoritesPath + "/" + strconv.FormatInt(hotelID, 10) + "/check"
	result, err := restclient.GetResult[favoriteResult](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("hotel_id", hotelID).Msg("favorite check failed")
		return false, err
	}
	return result.IsFavorite, nil
}

// FavoriteCount returns how many hotels the signed-in user has favorited.
func (s *Service) FavoriteCount(ctx context.Context) (int, error) {
	count, err := restclient.GetResult[int](ctx, s.client, favoriteCountPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("favorite count fetch failed")
		return 0, err
	}
	return count, nil
}
