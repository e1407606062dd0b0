package domain

import "errors"

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrSessionExpired       = errors.New("session expired or revoked")

	ErrProfileNotFound         = errors.New("profile not found")
	ErrInvalidProfile          = errors.New("invalid profile")
	ErrLastProfileUndeletable  = errors.New("the last profile of an account cannot be deleted")
	ErrTierLimitExceeded       = errors.New("free accounts can track only one character")
	ErrStartXpLocked           = errors.New("starting xp cannot change once xp has been logged")
	ErrStartXpBelowFloor       = errors.New("starting xp is below the minimum for the current level")
	ErrInvalidGoal             = errors.New("invalid goal")
	ErrRenameNeedsConfirmation = errors.New("renaming the character clears its xp history and must be confirmed")

	ErrLevelNotFound     = errors.New("level not found in experience table")
	ErrCharacterNotFound = errors.New("character not found on registry")
	ErrOracleUnavailable = errors.New("character registry temporarily unavailable")
)
