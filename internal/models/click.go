package models

import "time"

// Click is one recorded access attempt against a link. Click rows are
// append-only: they are never updated or deleted by the redirect flow.
type Click struct {
	ID        int64
	LinkID    int64
	IP        string
	Device    string
	Browser   string
	Referrer  string
	Country   *string
	CreatedAt time.Time
}

// ClientContext carries the transport-level facts about the client that the
// redirect engine turns into a Click. It is passed by value through the
// layers instead of being stashed on the request.
type ClientContext struct {
	IP        string
	UserAgent string
	Referrer  string
}
