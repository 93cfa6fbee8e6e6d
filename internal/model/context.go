package model

// ReservationContext is the (region, date, showtime) tuple that scopes
// every currently-held seat.  At most one context may own held seats at
// any time; changing any one field of the tuple invalidates ownership
// of all of them and obliges the coordinator to release before reset.
//
// Fields:
//  RegionID   – selected region (province).
//  DateISO    – selected date in YYYY-MM-DD form.
//  ShowtimeID – selected showtime, zero when none is chosen yet.
type ReservationContext struct {
	RegionID   uint64 `json:"region_id"`
	DateISO    string `json:"date"`
	ShowtimeID uint64 `json:"showtime_id"`
}

// Equal reports whether two context tuples are identical field by field.
func (r ReservationContext) Equal(o ReservationContext) bool {
	return r.RegionID == o.RegionID && r.DateISO == o.DateISO && r.ShowtimeID == o.ShowtimeID
}
