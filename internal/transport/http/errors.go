package handlers

import (
	"errors"
	"log"
	"net/http"

	"yonexus/internal/domain"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Order matters: a fallback lookup error matches both the registry outage
// and its cause.
var errorMappings = []errorMapping{
	{domain.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{domain.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{domain.ErrCharacterNotFound, http.StatusUnprocessableEntity, "character_not_found"},
	{domain.ErrLevelNotFound, http.StatusUnprocessableEntity, "level_not_found"},
	{domain.ErrOracleUnavailable, http.StatusServiceUnavailable, "oracle_unavailable"},
	{domain.ErrInvalidGoal, http.StatusBadRequest, "invalid_goal"},
	{domain.ErrStartXpBelowFloor, http.StatusBadRequest, "start_xp_below_floor"},
	{domain.ErrInvalidProfile, http.StatusBadRequest, "invalid_profile"},
	{domain.ErrInvalidAccount, http.StatusBadRequest, "invalid_account"},
	{domain.ErrStartXpLocked, http.StatusConflict, "start_xp_locked"},
	{domain.ErrLastProfileUndeletable, http.StatusConflict, "last_profile_undeletable"},
	{domain.ErrRenameNeedsConfirmation, http.StatusConflict, "rename_needs_confirmation"},
	{domain.ErrAccountAlreadyExists, http.StatusConflict, "account_already_exists"},
	{domain.ErrTierLimitExceeded, http.StatusForbidden, "tier_limit_exceeded"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},
}

// writeError maps err to a status and an {"error","code"} body. On read
// paths an unknown character is reported as missing rather than invalid.
func writeError(c *gin.Context, err error, read bool) {
	if read && errors.Is(err, domain.ErrCharacterNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "character_not_found"})
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error(), "code": m.code})
			return
		}
	}

	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
}
