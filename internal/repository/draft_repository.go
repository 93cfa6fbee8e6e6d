package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// DraftRecord is the persistence model for one handed-off booking
// draft.  The exported model.BookingDraft should be used for business
// logic; Draft() converts.  All timestamps are UTC.
type DraftRecord struct {
	ID           uint64    // primary key of the booking_drafts row
	Token        string    // opaque token carried by the browser through navigation
	Status       string    // PENDING or CONFIRMED
	ShowtimeID   uint64    // showtime the draft belongs to
	Payload      []byte    // JSON-encoded model.BookingRequest
	BookingRef   string    // backend booking reference, empty for pending drafts
	TTLRemaining int       // seconds left on the hold at capture time
	CapturedAt   time.Time // when TTLRemaining was measured
	ExpiresAt    time.Time // when the stored draft stops being retrievable
	CreatedAt    time.Time // creation timestamp
}

// Draft converts the record into the wire model handed to the payment
// screen.
func (r *DraftRecord) Draft() (model.BookingDraft, error) {
	var req model.BookingRequest
	if err := json.Unmarshal(r.Payload, &req); err != nil {
		return model.BookingDraft{}, err
	}
	return model.BookingDraft{
		Token:        r.Token,
		Status:       model.DraftStatus(r.Status),
		BookingRef:   r.BookingRef,
		Request:      req,
		TTLRemaining: r.TTLRemaining,
		CapturedAt:   r.CapturedAt,
	}, nil
}

// DraftRepo provides data access to the booking_drafts table: the
// server-side half of the navigation handoff.  The browser only
// carries the token; the payment screen fetches the payload back and
// resumes the countdown from TTLRemaining + CapturedAt.
type DraftRepo struct {
	db        *sql.DB
	retention time.Duration // how long drafts without a live TTL stay retrievable
}

// NewDraftRepo returns a DraftRepo bound to the provided database.
func NewDraftRepo(db *sql.DB, retention time.Duration) *DraftRepo {
	if retention <= 0 {
		retention = 30 * time.Minute
	}
	return &DraftRepo{db: db, retention: retention}
}

// randomToken generates a random hexadecimal string of n bytes (2n
// characters).  crypto/rand keeps tokens unguessable; the token is the
// only credential protecting a pending draft.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// create inserts one draft row and returns its token.
func (r *DraftRepo) create(ctx context.Context, status string, req model.BookingRequest, bookingRef string, ttlRemaining int, capturedAt time.Time) (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	expiresAt := capturedAt.Add(r.retention)
	if status == string(model.DraftPending) && ttlRemaining > 0 {
		// A pending draft is worthless once the hold expires.
		expiresAt = capturedAt.Add(time.Duration(ttlRemaining) * time.Second)
	}
	const q = `INSERT INTO booking_drafts
	           (token, status, showtime_id, payload, booking_ref, ttl_remaining, captured_at, expires_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		token, status, req.ShowtimeID, payload, bookingRef, ttlRemaining,
		capturedAt.UTC().Format("2006-01-02 15:04:05"),
		expiresAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

// SavePending stores an anonymous draft whose backend submission is
// deferred until identity is established at payment time.
func (r *DraftRepo) SavePending(ctx context.Context, req model.BookingRequest, ttlRemaining int, capturedAt time.Time) (string, error) {
	return r.create(ctx, string(model.DraftPending), req, "", ttlRemaining, capturedAt)
}

// SaveConfirmed stores the finalized booking reference of an
// identified submission so the payment screen can pick it up.
func (r *DraftRepo) SaveConfirmed(ctx context.Context, req model.BookingRequest, bookingRef string, ttlRemaining int, capturedAt time.Time) (string, error) {
	return r.create(ctx, string(model.DraftConfirmed), req, bookingRef, ttlRemaining, capturedAt)
}

// GetByToken fetches one draft by its token.  Expired drafts are
// reported as not found; comparisons run in UTC on the database side.
func (r *DraftRepo) GetByToken(ctx context.Context, token string) (*DraftRecord, error) {
	const q = `SELECT id, token, status, showtime_id, payload, booking_ref, ttl_remaining, captured_at, expires_at, created_at
	           FROM booking_drafts
	           WHERE token = ? AND expires_at > UTC_TIMESTAMP()`
	row := r.db.QueryRowContext(ctx, q, token)
	var rec DraftRecord
	err := row.Scan(&rec.ID, &rec.Token, &rec.Status, &rec.ShowtimeID, &rec.Payload,
		&rec.BookingRef, &rec.TTLRemaining, &rec.CapturedAt, &rec.ExpiresAt, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteExpired purges drafts past their expiry and returns how many
// rows were removed.  Intended to run from a periodic sweeper.
func (r *DraftRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE expires_at <= UTC_TIMESTAMP()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
