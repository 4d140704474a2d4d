package models

import "time"

// Referrer is an owner-scoped tag a link can be grouped under. It plays no
// part in redirect logic.
type Referrer struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
