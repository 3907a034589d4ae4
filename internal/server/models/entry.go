package models

import "time"

// Entry is the single persisted record. Opt is nil when the row's payload
// is NULL.
type Entry struct {
	ID   int64     `json:"id"`
	Opt  *string   `json:"opt"`
	Num  time.Time `json:"num"`
	Hash string    `json:"hash"`
}

// Payload returns Opt, or the empty string when it is absent.
func (e *Entry) Payload() string {
	if e.Opt == nil {
		return ""
	}
	return *e.Opt
}
