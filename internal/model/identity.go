package model

// Identity is the caller discriminator used when talking to the lock
// service and the booking backend.  Exactly one of the two fields is
// set: an authenticated user carries the JWT subject, a guest carries
// the session id minted by the identity middleware.
type Identity struct {
	UserID         string `json:"user_id,omitempty"`
	GuestSessionID string `json:"guest_session_id,omitempty"`
}

// Anonymous reports whether the caller has no authenticated user id.
func (i Identity) Anonymous() bool { return i.UserID == "" }

// Key returns a stable registry key for the identity.  Authenticated
// users and guests live in disjoint namespaces so a login mid-session
// never collides with the previous guest state.
func (i Identity) Key() string {
	if i.UserID != "" {
		return "user:" + i.UserID
	}
	return "guest:" + i.GuestSessionID
}
