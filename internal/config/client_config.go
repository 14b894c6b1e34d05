package config

import (
	"time"
)

const (
	apiBaseURLVar         = "TRIPGO_API_BASE_URL"
	recommenderBaseURLVar = "RECOMMENDER_BASE_URL"
	requestTimeoutVar     = "REQUEST_TIMEOUT"
)

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRecommenderBaseURL() string
	GetRequestTimeout() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "https://tripgo-api.onrender.com/api")
}

func (Client) GetRecommenderBaseURL() string {
	return GetEnv(recommenderBaseURLVar, "https://recommender-trip-go-api.onrender.com/api")
}

// GetRequestTimeout returns the per-request timeout. 30 seconds matches the
// mobile client.
func (Client) GetRequestTimeout() time.Duration {
	raw := GetEnv(requestTimeoutVar, "30s")
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
