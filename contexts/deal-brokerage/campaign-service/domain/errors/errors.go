package errors

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrApplicationNotFound    = errors.New("campaign application not found")
	ErrCampaignNotActive      = errors.New("campaign is not accepting applications")
	ErrOwnCampaignApplication = errors.New("advertiser cannot apply to own campaign")
	ErrDuplicateApplication   = errors.New("channel already has a pending application for this campaign")
	ErrApplicationDecided     = errors.New("application already decided")
	ErrForbidden              = errors.New("actor is not allowed to perform this action")
	ErrValidation             = errors.New("validation failed")
	ErrDealIntake             = errors.New("deal intake failed")
)
