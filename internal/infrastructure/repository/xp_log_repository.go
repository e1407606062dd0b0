package repository

import (
	"context"

	"yonexus/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XpLogRepository is the per-day xp ledger. Record accumulates into the
// day's entry; Overwrite replaces it and is reserved for backfills.
type XpLogRepository struct {
	db *gorm.DB
}

func NewXpLogRepository(db *gorm.DB) *XpLogRepository {
	return &XpLogRepository{db: db}
}

// Record adds delta to the day's entry with a single upsert statement.
func (r *XpLogRepository) Record(ctx context.Context, characterID uuid.UUID, day string, delta int64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "character_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]any{
			"xp":         gorm.Expr("xp_logs.xp + excluded.xp"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&domain.XpLog{CharacterID: characterID, Day: day, Xp: delta}).Error
}

func (r *XpLogRepository) Overwrite(ctx context.Context, characterID uuid.UUID, day string, delta int64) error {
	return overwrite(r.db.WithContext(ctx), characterID, day, delta)
}

// OverwriteBatch applies Overwrite for every entry in one transaction.
func (r *XpLogRepository) OverwriteBatch(ctx context.Context, characterID uuid.UUID, entries []domain.XpLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			if err := overwrite(tx, characterID, e.Day, e.Xp); err != nil {
				return err
			}
		}
		return nil
	})
}

func overwrite(db *gorm.DB, characterID uuid.UUID, day string, delta int64) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "character_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"xp", "updated_at"}),
	}).Create(&domain.XpLog{CharacterID: characterID, Day: day, Xp: delta}).Error
}

// List returns the ledger ordered by day, oldest first.
func (r *XpLogRepository) List(ctx context.Context, characterID uuid.UUID) ([]domain.XpLog, error) {
	var entries []domain.XpLog
	err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("day asc").
		Find(&entries).Error
	return entries, err
}

// ListRecent returns up to limit entries, newest first.
func (r *XpLogRepository) ListRecent(ctx context.Context, characterID uuid.UUID, limit int) ([]domain.XpLog, error) {
	var entries []domain.XpLog
	err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("day desc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *XpLogRepository) Count(ctx context.Context, characterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.XpLog{}).
		Where("character_id = ?", characterID).
		Count(&count).Error
	return count, err
}

func (r *XpLogRepository) Clear(ctx context.Context, characterID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Delete(&domain.XpLog{}).Error
}
