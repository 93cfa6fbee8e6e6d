package lockclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

func TestReleaseSeatsSendsBatchRequest(t *testing.T) {
	var gotPath string
	var gotBody struct {
		SeatIDs []uint64 `json:"seat_ids"`
		Reason  string   `json:"reason"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.ReleaseSeats(context.Background(), 10, []uint64{101, 102}, "Showtime changed")

	require.NoError(t, err)
	assert.Equal(t, "/v1/showtimes/10/release", gotPath)
	assert.Equal(t, []uint64{101, 102}, gotBody.SeatIDs)
	assert.Equal(t, "Showtime changed", gotBody.Reason)
}

func TestReleaseSeatsEmptyListIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).ReleaseSeats(context.Background(), 10, nil, "x"))
	assert.False(t, called)
}

func TestReleaseTreatsGoneStatusesAsSuccess(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusConflict, http.StatusGone} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		c := New(srv.URL)

		// Double release must never surface an error.
		assert.NoError(t, c.ReleaseSeats(context.Background(), 10, []uint64{101}, "x"), "status %d", code)
		assert.NoError(t, c.UnlockSingleSeat(context.Background(), 10, 101, model.Identity{GuestSessionID: "g1"}), "status %d", code)
		srv.Close()
	}
}

func TestReleaseSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, New(srv.URL).ReleaseSeats(context.Background(), 10, []uint64{101}, "x"))
}

func TestUnlockSingleSeatCarriesIdentity(t *testing.T) {
	var gotPath string
	var gotBody struct {
		UserID         string `json:"user_id"`
		GuestSessionID string `json:"guest_session_id"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := New(srv.URL).UnlockSingleSeat(context.Background(), 10, 101, model.Identity{UserID: "u7"})

	require.NoError(t, err)
	assert.Equal(t, "/v1/showtimes/10/seats/101/unlock", gotPath)
	assert.Equal(t, "u7", gotBody.UserID)
	assert.Empty(t, gotBody.GuestSessionID)
}
