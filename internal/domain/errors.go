package domain

import "errors"

var (
	// ErrAssessmentNotFound is returned when an assessment ID is not found
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrUnknownAssessmentType is returned for unrecognised assessment types
	ErrUnknownAssessmentType = errors.New("unknown assessment type")

	// ErrSchemeNotFound is returned when a client has no naming scheme configured
	ErrSchemeNotFound = errors.New("naming scheme not found")

	// ErrTagPolicyNotFound is returned when a client has no tag policy configured
	ErrTagPolicyNotFound = errors.New("tag policy not found")

	// ErrStoreUnavailable is returned when no database is configured
	ErrStoreUnavailable = errors.New("store not available")
)
