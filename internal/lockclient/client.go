// Package lockclient is the HTTP client for the external seat-lock
// service.  The lock service owns true lock state and expiry; every
// call here is advisory from the client's point of view and release
// operations are idempotent by contract.
package lockclient

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

// Client talks to the lock service's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the lock service at baseURL.  A short
// timeout keeps best-effort release calls from pinning teardown
// goroutines when the service is slow.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ReleaseSeats releases every listed seat lock for one showtime in a
// single call.  The reason is a human-readable transition tag
// ("Showtime changed", ...) recorded by the lock service for audit.
// Responses that mean "already gone" (404, 409, 410) count as success:
// releasing twice must never surface an error to the caller.
func (c *Client) ReleaseSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64, reason string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	body := struct {
		SeatIDs []uint64 `json:"seat_ids"`
		Reason  string   `json:"reason"`
	}{SeatIDs: seatIDs, Reason: reason}
	url := fmt.Sprintf("%s/v1/showtimes/%d/release", c.baseURL, showtimeID)
	return c.post(ctx, url, body)
}

// UnlockSingleSeat releases one seat lock, identified by either the
// authenticated user id or the guest session id.  Used by the explicit
// seat-deselect path and by per-seat teardown; same idempotent
// semantics as ReleaseSeats.
func (c *Client) UnlockSingleSeat(ctx context.Context, showtimeID, seatID uint64, id model.Identity) error {
	body := struct {
		UserID         string `json:"user_id,omitempty"`
		GuestSessionID string `json:"guest_session_id,omitempty"`
	}{UserID: id.UserID, GuestSessionID: id.GuestSessionID}
	url := fmt.Sprintf("%s/v1/showtimes/%d/seats/%d/unlock", c.baseURL, showtimeID, seatID)
	return c.post(ctx, url, body)
}

// post sends a JSON POST and maps gone-already statuses to nil.
func (c *Client) post(ctx context.Context, url string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("lockclient: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("lockclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lockclient: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusGone:
		// Lock already expired or re-claimed; release is satisfied.
		return nil
	default:
		return fmt.Errorf("lockclient: unexpected status %d from %s", resp.StatusCode, url)
	}
}
