package restclient

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

// Envelope is the `{code, message, result}` wrapper every TripGo response
// uses.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

// Paged is the paginated result shape some listing endpoints wrap their
// content in.
type Paged[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}

// GetResult issues a GET and unwraps the envelope's result.
func GetResult[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return zero, err
	}
	return unwrap[T](body)
}

// PostResult issues a POST and unwraps the envelope's result.
func PostResult[T any](ctx context.Context, c *Client, path string, reqBody any) (T, error) {
	var zero T
	body, err := c.Post(ctx, path, reqBody)
	if err != nil {
		return zero, err
	}
	return unwrap[T](body)
}

func unwrap[T any](body []byte) (T, error) {
	var envelope Envelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		var zero T
		return zero, errors.Wrap(err, "[restclient.unwrap] decode envelope")
	}
	return envelope.Result, nil
}
