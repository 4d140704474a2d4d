package models

import "time"

// LinkStatus is the servability state of a link.
type LinkStatus string

const (
	// StatusActive marks a link that can be served.
	StatusActive LinkStatus = "ACTIVE"
	// StatusDisabled marks a link switched off by its owner. The owner can
	// toggle it back to ACTIVE.
	StatusDisabled LinkStatus = "DISABLED"
	// StatusExpired marks a link whose expiration time has passed.
	// Not reversible through the toggle operation.
	StatusExpired LinkStatus = "EXPIRED"
	// StatusLimitReached marks a link that has consumed its click limit.
	// Not reversible through the toggle operation.
	StatusLimitReached LinkStatus = "LIMIT_REACHED"
)

// AllStatuses lists every link status in the order aggregations report them.
var AllStatuses = []LinkStatus{StatusActive, StatusDisabled, StatusExpired, StatusLimitReached}

// Link binds an alias to a target URL plus the access-control metadata
// evaluated on every redirect.
type Link struct {
	ID          int64
	Alias       string
	OriginalURL string
	// PasswordHash holds the bcrypt hash of the link password, nil when the
	// link is not password protected.
	PasswordHash  *string
	IsUsePassword bool
	ExpireAt      *time.Time
	MaxClicks     *int64
	// ClicksCount counts every attempted access that reached a servable link.
	ClicksCount int64
	// SuccessfulAccessCount counts accesses that passed the password gate,
	// or any access on links without a password. Never exceeds ClicksCount.
	SuccessfulAccessCount int64
	Status                LinkStatus
	UserID                int64
	ReferrerID            *int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// EffectiveStatus derives the servability state at the given instant.
// Expiry takes precedence over the click limit; otherwise the persisted
// status stands.
func (l *Link) EffectiveStatus(now time.Time) LinkStatus {
	if l.ExpireAt != nil && now.After(*l.ExpireAt) {
		return StatusExpired
	}
	if l.MaxClicks != nil && l.ClicksCount >= *l.MaxClicks {
		return StatusLimitReached
	}
	return l.Status
}

// RedirectResult is what the redirect engine returns for a servable link.
// When RequiresPassword is set the caller must send the client to the
// password page instead of the target URL.
type RedirectResult struct {
	Link             *Link
	RequiresPassword bool
}
