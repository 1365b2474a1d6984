package siae

import (
	"fmt"
	"time"

	"github.com/itou/backend/internal/domain/shared"
)

// DeactivationGracePeriod is how long a deactivated convention still allows
// limited operation of its structures
const DeactivationGracePeriod = 30 * 24 * time.Hour

// Convention is the administrative authorization of a structure, shared by
// every structure with the same ASP id and kind
type Convention struct {
	shared.BaseEntity
	Kind           Kind
	SiretSignature string
	IsActive       bool
	DeactivatedAt  *time.Time
	ReactivatedAt  *time.Time
	ReactivatedBy  *int64
	AspID          int64
}

// NewConvention creates an active convention
func NewConvention(aspID int64, kind Kind, siretSignature string) (*Convention, error) {
	if err := ValidateSIRET(siretSignature); err != nil {
		return nil, err
	}
	if !kind.IsASPManaged() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Kind %s has no ASP convention", kind))
	}
	return &Convention{
		BaseEntity:     shared.NewBaseEntity(),
		Kind:           kind,
		SiretSignature: siretSignature,
		IsActive:       true,
		AspID:          aspID,
	}, nil
}

// Deactivate marks the convention inactive and starts the grace period.
// Deactivating an inactive convention keeps the original timestamp.
func (c *Convention) Deactivate(now time.Time) {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.DeactivatedAt = &now
	c.UpdatedAt = now
}

// Reactivate manually reactivates the convention
func (c *Convention) Reactivate(byUserID int64, now time.Time) {
	c.IsActive = true
	c.DeactivatedAt = nil
	c.ReactivatedAt = &now
	c.ReactivatedBy = &byUserID
	c.UpdatedAt = now
}

// GracePeriodEnd returns when the grace period ends, nil if not deactivated
func (c *Convention) GracePeriodEnd() *time.Time {
	if c.DeactivatedAt == nil {
		return nil
	}
	end := c.DeactivatedAt.Add(DeactivationGracePeriod)
	return &end
}

// IsInGracePeriod reports whether the convention is inactive but still
// within its grace period
func (c *Convention) IsInGracePeriod(now time.Time) bool {
	if c.IsActive || c.DeactivatedAt == nil {
		return false
	}
	return now.Before(*c.GracePeriodEnd())
}

// AllowsOperation reports whether structures under this convention may
// operate (fully when active, limited during the grace period)
func (c *Convention) AllowsOperation(now time.Time) bool {
	return c.IsActive || c.IsInGracePeriod(now)
}

// RefreshActivity recomputes IsActive from the annexes: active iff at least
// one annex is valid at now. Returns true when the activity changed.
func (c *Convention) RefreshActivity(annexes []FinancialAnnex, now time.Time) bool {
	active := false
	for i := range annexes {
		if annexes[i].IsValidAt(now) {
			active = true
			break
		}
	}
	if active == c.IsActive {
		return false
	}
	if active {
		c.IsActive = true
		c.DeactivatedAt = nil
		c.UpdatedAt = now
	} else {
		c.Deactivate(now)
	}
	return true
}

// CurrentAnnex returns the valid annex ending last, or nil
func CurrentAnnex(annexes []FinancialAnnex, now time.Time) *FinancialAnnex {
	var current *FinancialAnnex
	for i := range annexes {
		a := &annexes[i]
		if !a.IsValidAt(now) {
			continue
		}
		if current == nil || a.EndAt.After(current.EndAt) {
			current = a
		}
	}
	return current
}
