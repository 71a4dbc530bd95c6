package services

import (
	"strings"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
)

// RoleSet is the caller's resolved roles relative to one deal.
type RoleSet struct {
	Owner     bool
	Applicant bool
}

func (r RoleSet) Has(role entities.DealRole) bool {
	switch role {
	case entities.RoleOwner:
		return r.Owner
	case entities.RoleApplicant:
		return r.Applicant
	default:
		return false
	}
}

func (r RoleSet) None() bool {
	return !r.Owner && !r.Applicant
}

// ResolveRoles is pure: it never touches storage and never mutates the deal.
func ResolveRoles(deal entities.Deal, userID string) RoleSet {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return RoleSet{}
	}
	return RoleSet{
		Owner:     deal.OwnerID == userID,
		Applicant: deal.ApplicantID == userID,
	}
}
