package handlers

import (
	"context"
	"net/http"

	"yonexus/internal/application/tracker"
	"yonexus/internal/domain"
	"yonexus/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Tracker interface {
	AddProfile(ctx context.Context, owner tracker.Owner, in tracker.ProfileInput) (*domain.Character, error)
	UpdateProfile(ctx context.Context, accountID, id uuid.UUID, in tracker.ProfileInput) (*tracker.UpdateResult, error)
	DeleteProfile(ctx context.Context, accountID, id uuid.UUID) error
	ListProfiles(ctx context.Context, accountID uuid.UUID) ([]domain.Character, error)
	RecordDailyXp(ctx context.Context, accountID, id uuid.UUID, delta int64) (string, error)
	ResetHistory(ctx context.Context, accountID, id uuid.UUID) error
	GetSnapshot(ctx context.Context, accountID, id uuid.UUID) (*domain.Snapshot, error)
	LevelTable() []domain.LevelEntry
}

// OwnerResolver looks up the entitlement of the calling account.
type OwnerResolver interface {
	Owner(ctx context.Context, accountID uuid.UUID) (tracker.Owner, error)
}

type CharacterHandler struct {
	tracker Tracker
	owners  OwnerResolver
}

func NewCharacterHandler(t Tracker, owners OwnerResolver) *CharacterHandler {
	return &CharacterHandler{tracker: t, owners: owners}
}

type profileReq struct {
	CharName            string `json:"char_name" binding:"required"`
	XpStart             *int64 `json:"xp_start"`
	DailyGoal           *int64 `json:"daily_goal"`
	GoalLevel           *int   `json:"goal_level"`
	XpGoal              *int64 `json:"xp_goal"`
	ConfirmHistoryReset bool   `json:"confirm_history_reset"`
}

func (r profileReq) profileInput() tracker.ProfileInput {
	return tracker.ProfileInput{
		Name:                r.CharName,
		XpStart:             r.XpStart,
		DailyGoal:           r.DailyGoal,
		Goal:                tracker.GoalInput{Level: r.GoalLevel, Xp: r.XpGoal},
		ConfirmHistoryReset: r.ConfirmHistoryReset,
	}
}

// updateReq is profileReq with every field optional.
type updateReq struct {
	CharName            string `json:"char_name"`
	XpStart             *int64 `json:"xp_start"`
	DailyGoal           *int64 `json:"daily_goal"`
	GoalLevel           *int   `json:"goal_level"`
	XpGoal              *int64 `json:"xp_goal"`
	ConfirmHistoryReset bool   `json:"confirm_history_reset"`
}

type xpReq struct {
	Xp *int64 `json:"xp" binding:"required"`
}

// GET /api/v1/characters
func (h *CharacterHandler) List(c *gin.Context) {
	characters, err := h.tracker.ListProfiles(c, middleware.AccountID(c))
	if err != nil {
		writeError(c, err, true)
		return
	}
	if characters == nil {
		characters = []domain.Character{}
	}
	c.JSON(http.StatusOK, characters)
}

// POST /api/v1/characters
func (h *CharacterHandler) Add(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	owner, err := h.owners.Owner(c, middleware.AccountID(c))
	if err != nil {
		writeError(c, err, false)
		return
	}
	character, err := h.tracker.AddProfile(c, owner, req.profileInput())
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, character)
}

// PUT /api/v1/characters/:id
func (h *CharacterHandler) Update(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.tracker.UpdateProfile(c, middleware.AccountID(c), id, profileReq(req).profileInput())
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /api/v1/characters/:id
func (h *CharacterHandler) Delete(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	if err := h.tracker.DeleteProfile(c, middleware.AccountID(c), id); err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/v1/characters/:id/metrics
func (h *CharacterHandler) Metrics(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	snap, err := h.tracker.GetSnapshot(c, middleware.AccountID(c), id)
	if err != nil {
		writeError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// POST /api/v1/characters/:id/xp
func (h *CharacterHandler) RecordXp(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	var req xpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	day, err := h.tracker.RecordDailyXp(c, middleware.AccountID(c), id, *req.Xp)
	if err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "xp": *req.Xp})
}

// POST /api/v1/characters/:id/reset-history
func (h *CharacterHandler) ResetHistory(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	if err := h.tracker.ResetHistory(c, middleware.AccountID(c), id); err != nil {
		writeError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/v1/xp-table
func (h *CharacterHandler) LevelTable(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"experience_table": h.tracker.LevelTable()})
}

func characterID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, domain.ErrProfileNotFound, true)
		return uuid.Nil, false
	}
	return id, true
}
