package model

import (
	"time"
)

// AliasLength is the fixed length of every issued alias.
const AliasLength = 8

// Link is a shortened URL record owned by a single user.
type Link struct {
	ID         string     `json:"id"`
	Alias      string     `json:"alias"`
	OriginURL  string     `json:"origin_url"`
	OwnerID    string     `json:"owner_id"`
	VisitCount int64      `json:"visit_count"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// OwnedBy reports whether the link belongs to the given owner.
func (l *Link) OwnedBy(ownerID string) bool {
	return l != nil && ownerID != "" && l.OwnerID == ownerID
}

// Clone returns a copy that shares no pointers with the receiver.
func (l *Link) Clone() *Link {
	if l == nil {
		return nil
	}
	c := *l
	if l.ExpiresAt != nil {
		t := *l.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}

// LinkStats is the owner-visible counter projection of a link.
type LinkStats struct {
	Alias      string `json:"alias"`
	VisitCount int64  `json:"visit_count"`
}

// Stats returns the counter projection of the link.
func (l *Link) Stats() LinkStats {
	return LinkStats{
		Alias:      l.Alias,
		VisitCount: l.VisitCount,
	}
}

// LinkVersion is the alias and origin a write was based on. Stores apply
// an update only while the row still carries this version.
type LinkVersion struct {
	Alias     string
	OriginURL string
}

// Version returns the current version of the link.
func (l *Link) Version() LinkVersion {
	return LinkVersion{Alias: l.Alias, OriginURL: l.OriginURL}
}
