// Package premium holds the date math behind the superintendent premium badge.
package premium

import (
	"errors"
	"math"
	"time"
)

const (
	ExpiringSoonWindow = 7 * 24 * time.Hour
	MinMonths          = 1
	MaxMonths          = 24
)

var ErrInvalidMonths = errors.New("premium months must be between 1 and 24")

// Status is the computed badge shown on profiles.
type Status struct {
	Active        bool       `json:"active"`
	Since         *time.Time `json:"since,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
	ExpiringSoon  bool       `json:"expiring_soon"`
}

// StatusAt evaluates the badge at now. A premium period is active when
// since <= now < until (since may be nil). Remaining days round up, so the
// last partial day still counts as one.
func StatusAt(since, until *time.Time, now time.Time) Status {
	st := Status{Since: since, ExpiresAt: until}
	if until == nil || !now.Before(*until) {
		return st
	}
	if since != nil && now.Before(*since) {
		return st
	}
	remaining := until.Sub(now)
	st.Active = true
	st.DaysRemaining = int(math.Ceil(remaining.Hours() / 24))
	st.ExpiringSoon = remaining <= ExpiringSoonWindow
	return st
}

// Extend adds months to the later of until and now, keeping unused time.
// It returns the new since (unchanged while still active) and until.
func Extend(since, until *time.Time, now time.Time, months int) (time.Time, time.Time, error) {
	if months < MinMonths || months > MaxMonths {
		return time.Time{}, time.Time{}, ErrInvalidMonths
	}
	base := now
	newSince := now
	if until != nil && until.After(now) {
		base = *until
		if since != nil {
			newSince = *since
		}
	}
	return newSince, base.AddDate(0, months, 0), nil
}
