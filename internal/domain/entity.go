package domain

import "time"

// TimePrecision is the resolution of TIMESTAMPTZ columns
const TimePrecision = time.Microsecond

// Audit holds the lifecycle columns shared by every catalog entity
type Audit struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	IsDeleted bool      `json:"isDeleted" db:"is_deleted"`
}

// StorageTime converts a clock reading to the precision the database keeps
func StorageTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimePrecision)
}

// NextUpdatedAt returns now, or the smallest representable instant after prev
// when the clock has not moved past it. updated_at therefore strictly advances.
func NextUpdatedAt(prev, now time.Time) time.Time {
	now = StorageTime(now)
	if now.After(prev) {
		return now
	}
	return StorageTime(prev).Add(TimePrecision)
}

func (a *Audit) stampCreated(now time.Time) {
	now = StorageTime(now)
	a.CreatedAt = now
	a.UpdatedAt = now
	a.IsDeleted = false
}

func (a *Audit) touch(now time.Time) {
	a.UpdatedAt = NextUpdatedAt(a.UpdatedAt, now)
}

// MarkDeleted flips the soft-delete flag and refreshes UpdatedAt. The flag never goes back.
func (a *Audit) MarkDeleted(now time.Time) {
	a.IsDeleted = true
	a.touch(now)
}
