package usage

import "time"

// Record is one append-only usage ledger entry, written exactly once per
// successfully completed pipeline run. Records are never mutated or deleted;
// the monthly quota count is derived from them.
type Record struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	VideoLabel string    `json:"video_label"`
	Plan       string    `json:"plan"`
	CreatedAt  time.Time `json:"created_at"`
}
