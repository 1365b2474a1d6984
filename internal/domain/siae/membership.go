package siae

import "time"

// Membership links a user to a structure
type Membership struct {
	ID       int64
	UserID   int64
	SiaeID   int64
	IsAdmin  bool
	IsActive bool
	JoinedAt time.Time
}

// NewMembership creates an active membership joined now
func NewMembership(userID, siaeID int64, isAdmin bool) *Membership {
	return &Membership{
		UserID:   userID,
		SiaeID:   siaeID,
		IsAdmin:  isAdmin,
		IsActive: true,
		JoinedAt: time.Now(),
	}
}
