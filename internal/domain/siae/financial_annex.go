package siae

import (
	"regexp"
	"time"

	"github.com/itou/backend/internal/domain/shared"
)

// AnnexState is the ASP state of a financial annex
type AnnexState string

const (
	AnnexStateValid       AnnexState = "VALIDE"
	AnnexStateProvisional AnnexState = "PROVISOIRE"
	AnnexStateArchived    AnnexState = "HISTORISE"
	AnnexStateCancelled   AnnexState = "ANNULE"
	AnnexStateEntered     AnnexState = "SAISI"
	AnnexStateDraft       AnnexState = "BROUILLON"
	AnnexStateClosed      AnnexState = "CLOTURE"
	AnnexStateRejected    AnnexState = "REJETE"
)

// IsValid checks if the state is a known AnnexState
func (s AnnexState) IsValid() bool {
	switch s {
	case AnnexStateValid, AnnexStateProvisional, AnnexStateArchived, AnnexStateCancelled,
		AnnexStateEntered, AnnexStateDraft, AnnexStateClosed, AnnexStateRejected:
		return true
	}
	return false
}

// GrantsActivity reports whether an annex in this state can keep a
// convention active. Provisional annexes count as valid.
func (s AnnexState) GrantsActivity() bool {
	return s == AnnexStateValid || s == AnnexStateProvisional
}

var amendmentSuffix = regexp.MustCompile(`M\d{1,2}$`)

// FinancialAnnex is a time-bounded funding addendum of a convention
type FinancialAnnex struct {
	shared.BaseEntity
	Number           string
	ConventionNumber string
	State            AnnexState
	StartAt          time.Time
	EndAt            time.Time
	ConventionID     int64
}

// NewFinancialAnnex validates and builds an annex
func NewFinancialAnnex(conventionID int64, number, conventionNumber string, state AnnexState, startAt, endAt time.Time) (*FinancialAnnex, error) {
	if err := ValidateFinancialAnnexNumber(number); err != nil {
		return nil, err
	}
	if !state.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown financial annex state: "+string(state))
	}
	if !endAt.After(startAt) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Financial annex must end after it starts")
	}
	return &FinancialAnnex{
		BaseEntity:       shared.NewBaseEntity(),
		Number:           number,
		ConventionNumber: conventionNumber,
		State:            state,
		StartAt:          startAt,
		EndAt:            endAt,
		ConventionID:     conventionID,
	}, nil
}

// IsValidAt reports whether the annex is in force at the given instant
func (a *FinancialAnnex) IsValidAt(now time.Time) bool {
	return a.State.GrantsActivity() && !now.Before(a.StartAt) && now.Before(a.EndAt)
}

// NumberPrefix is the annex number without its amendment suffix
// ("EI59V182019A1M1" gives "EI59V182019A1"), as expected by the ASP
func (a *FinancialAnnex) NumberPrefix() string {
	return amendmentSuffix.ReplaceAllString(a.Number, "")
}
