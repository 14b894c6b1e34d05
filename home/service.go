// Package home wraps the public listing endpoints feeding the home feed:
// featured locations, flights, hotels, tours, vouchers, and destination
// lookups. Every method returns the envelope's result unchanged; failures
// come back as the raw pipeline error, except CountryLocations, which
// deliberately degrades to an empty list.
package home

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/restclient"
)

const (
	locationsPath        = "/public/home/locations"
	flightsPath          = "/public/home/flights"
	hotelsPath           = "/public/home/hotels"
	vouchersPath         = "/public/home/vouchers"
	toursPath            = "/public/tours"
	vnLocationsPath      = "/public/locations/vn-location"
	dropdownPath         = "/public/locations/dropdown"
	hotelsByLocationPath = "/public/hotels/by-location/"
	hotelSearchPath      = "/public/hotels/search"
)

// LocationCard is a featured location on the home feed.
type LocationCard struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Thumbnail string `json:"thumbnail"`
}

// FlightCard is a featured flight on the home feed.
type FlightCard struct {
	ID            int64   `json:"id"`
	FlightNumber  string  `json:"flightNumber"`
	AirlineLogo   string  `json:"airlineLogo"`
	AirlineName   string  `json:"airlineName"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	Duration      string  `json:"duration"`
	FromLocation  string  `json:"fromLocation"`
	ToLocation    string  `json:"toLocation"`
	MinPrice      float64 `json:"minPrice"`
	Image         string  `json:"image"`
}

// HotelCard is a featured hotel on the home feed.
type HotelCard struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	StarRating   int     `json:"starRating"`
	TotalReviews int     `json:"totalReviews"`
	LocationName string  `json:"locationName"`
	Thumbnail    string  `json:"thumbnail"`
	MinPrice     float64 `json:"minPrice"`
	HotelType    string  `json:"hotelType"`
	IsFavorite   bool    `json:"isFavorite"`
}

// TourCard is a featured tour on the home feed.
type TourCard struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Slug              string  `json:"slug"`
	Duration          string  `json:"duration"`
	StartLocationName string  `json:"startLocationName"`
	DestinationName   string  `json:"destinationName"`
	Thumbnail         string  `json:"thumbnail"`
	Price             float64 `json:"price"`
	Transportation    string  `json:"transportation"`
}

// Voucher is a promotion listed on the hotel page.
type Voucher struct {
	ID                int64   `json:"id"`
	VoucherName       string  `json:"voucherName"`
	VoucherCode       string  `json:"voucherCode"`
	Description       string  `json:"description"`
	DiscountType      string  `json:"discountType"` // PERCENTAGE or FIXED_AMOUNT
	DiscountValue     float64 `json:"discountValue"`
	MinOrderValue     float64 `json:"minOrderValue,omitempty"`
	MaxDiscountAmount float64 `json:"maxDiscountAmount,omitempty"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	UsageLimit        int     `json:"usageLimit,omitempty"`
	UsedCount         int     `json:"usedCount"`
	Status            string  `json:"status"`
}

// LocationDetail is a full location record (used for the Vietnam section).
type LocationDetail struct {
	ID          int64  `json:"id"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Type        string `json:"type"` // COUNTRY, CITY or PROVINCE
}

// Destination is a dropdown location with its hotel count.
type Destination struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Thumbnail string `json:"thumbnail"`
	Type      string `json:"type"`
	Count     int    `json:"count"`
}

// HotelByLocation is a hotel listed under a location.
type HotelByLocation struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	StarRating   int     `json:"starRating"`
	LocationName string  `json:"locationName"`
	Thumbnail    string  `json:"thumbnail"`
	MinPrice     float64 `json:"minPrice"`
	HotelType    string  `json:"hotelType"`
	Favorite     bool    `json:"favorite"`
}

// HotelSearchResult is the country-search response shape.
type HotelSearchResult struct {
	Hotels        []HotelByLocation `json:"hotels"`
	TotalElements int               `json:"totalElements"`
}

// Service is the home-feed domain service.
type Service struct {
	client *restclient.Client
}

// NewService creates a Service.
func NewService(client *restclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[home.NewService] rest client is required")
	}
	return &Service{client: client}, nil
}

// FeaturedLocations lists the home feed's featured locations.
func (s *Service) FeaturedLocations(ctx context.Context) ([]LocationCard, error) {
	cards, err := restclient.GetResult[[]LocationCard](ctx, s.client, locationsPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("featured locations fetch failed")
		return nil, err
	}
	return cards, nil
}

// FeaturedFlights lists the home feed's featured flights.
func (s *Service) FeaturedFlights(ctx context.Context) ([]FlightCard, error) {
	cards, err := restclient.GetResult[[]FlightCard](ctx, s.client, flightsPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("featured flights fetch failed")
		return nil, err
	}
	return cards, nil
}

// FeaturedHotels lists the home feed's featured hotels.
func (s *Service) FeaturedHotels(ctx context.Context) ([]HotelCard, error) {
	cards, err := restclient.GetResult[[]HotelCard](ctx, s.client, hotelsPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("featured hotels fetch failed")
		return nil, err
	}
	return cards, nil
}

// FeaturedTours lists a page of tours, newest first.
func (s *Service) FeaturedTours(ctx context.Context, page, size int) ([]TourCard, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	query.Set("sortBy", "id")
	query.Set("sortDir", "desc")
	paged, err := restclient.GetResult[restclient.Paged[TourCard]](ctx, s.client, toursPath, query)
	if err != nil {
		log.Error().Err(err).Msg("featured tours fetch failed")
		return nil, err
	}
	return paged.Content, nil
}

// Vouchers lists the hotel-page vouchers.
func (s *Service) Vouchers(ctx context.Context) ([]Voucher, error) {
	vouchers, err := restclient.GetResult[[]Voucher](ctx, s.client, vouchersPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("vouchers fetch failed")
		return nil, err
	}
	return vouchers, nil
}

// VietnamLocations lists the domestic locations section.
func (s *Service) VietnamLocations(ctx context.Context) ([]LocationDetail, error) {
	locations, err := restclient.GetResult[[]LocationDetail](ctx, s.client, vnLocationsPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("vietnam locations fetch failed")
		return nil, err
	}
	return locations, nil
}

// PopularDestinations lists dropdown locations with hotel counts.
func (s *Service) PopularDestinations(ctx context.Context) ([]Destination, error) {
	destinations, err := restclient.GetResult[[]Destination](ctx, s.client, dropdownPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("popular destinations fetch failed")
		return nil, err
	}
	return destinations, nil
}

// CountryLocations filters the dropdown listing to countries. Unlike the
// rest of the feed it swallows every failure and returns an empty list.
func (s *Service) CountryLocations(ctx context.Context) []Destination {
	destinations, err := restclient.GetResult[[]Destination](ctx, s.client, dropdownPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("country locations fetch failed, returning empty list")
		return []Destination{}
	}
	countries := make([]Destination, 0, len(destinations))
	for _, destination := range destinations {
		if destination.Type == "COUNTRY" {
			countries = append(countries, destination)
		}
	}
	return countries
}

// HotelsByLocation lists hotels under a Vietnam location.
func (s *Service) HotelsByLocation(ctx context.Context, locationID int64) ([]HotelByLocation, error) {
	path := hotelsByLocationPath + strconv.FormatInt(locationID, 10)
	hotels, err := restclient.GetResult[[]HotelByLocation](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("location_id", locationID).Msg("hotels by location fetch failed")
		return nil, err
	}
	return hotels, nil
}

// HotelsByCountry searches hotels for a country.
func (s *Service) HotelsByCountry(ctx context.Context, countryID int64) (HotelSearchResult, error) {
	query := url.Values{}
	query.Set("countryId", strconv.FormatInt(countryID, 10))
	result, err := restclient.GetResult[HotelSearchResult](ctx, s.client, hotelSearchPath, query)
	if err != nil {
		log.Error().Err(err).Int64("country_id", countryID).Msg("hotels by country fetch failed")
		return HotelSearchResult{}, err
	}
	return result, nil
}
