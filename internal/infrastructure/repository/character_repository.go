package repository

import (
	"context"
	"errors"

	"yonexus/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CharacterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func (r *CharacterRepository) Create(ctx context.Context, character *domain.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).First(&character, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &character, nil
}

func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Character, error) {
	var characters []domain.Character
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at asc").
		Find(&characters).Error
	return characters, err
}

func (r *CharacterRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Character{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

// Update saves the character configuration and, when clearHistory is set,
// drops its xp logs in the same transaction.
func (r *CharacterRepository) Update(ctx context.Context, character *domain.Character, clearHistory bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(character).
			Select("name", "xp_start", "xp_goal", "daily_goal", "goal_level", "updated_at").
			Updates(character).Error
		if err != nil {
			return err
		}
		if clearHistory {
			return tx.Where("character_id = ?", character.ID).Delete(&domain.XpLog{}).Error
		}
		return nil
	})
}

// Delete removes a character and its xp logs. The last character of an
// account is never removed.
func (r *CharacterRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Character{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
			return err
		}

		var character domain.Character
		if err := tx.First(&character, "id = ? AND account_id = ?", id, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProfileNotFound
			}
			return err
		}
		if count <= 1 {
			return domain.ErrLastProfileUndeletable
		}

		if err := tx.Where("character_id = ?", id).Delete(&domain.XpLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&character).Error
	})
}
