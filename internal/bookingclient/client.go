// Package bookingclient is the HTTP client for the booking backend,
// which finalizes a reservation into a paid ticket.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// Client talks to the booking backend's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the booking backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateBooking submits an assembled booking request and returns the
// backend's booking reference.  Unlike release calls this error is
// meant for the user: the handler surfaces it as a blocking notice and
// leaves local reservation state intact so the visitor can retry.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingResult, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("bookingclient: marshal request: %w", err)
	}
	url := c.baseURL + "/v1/bookings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("bookingclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return model.BookingResult{}, fmt.Errorf("bookingclient: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.BookingResult{}, fmt.Errorf("bookingclient: booking rejected with status %d", resp.StatusCode)
	}
	var out model.BookingResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.BookingResult{}, fmt.Errorf("bookingclient: decode response: %w", err)
	}
	return out, nil
}
