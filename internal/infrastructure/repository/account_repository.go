package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"yonexus/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithCharacter stores a new account together with its first
// character, or neither.
func (r *AccountRepository) CreateWithCharacter(ctx context.Context, account *domain.Account, character *domain.Character) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAccountAlreadyExists
			}
			return err
		}
		character.AccountID = account.ID
		return tx.Create(character).Error
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByLogin finds an account by username or e-mail.
func (r *AccountRepository) GetByLogin(ctx context.Context, login string) (*domain.Account, error) {
	login = strings.TrimSpace(login)

	var account domain.Account
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) List(ctx context.Context, limit int) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).Order("created_at asc").Limit(limit).Find(&accounts).Error
	return accounts, err
}

// Delete removes the account with every character and xp log it owns.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		characters := tx.Model(&domain.Character{}).Select("id").Where("account_id = ?", id)
		if err := tx.Where("character_id IN (?)", characters).Delete(&domain.XpLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&domain.Character{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Account{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return nil
	})
}

// ExtendVip adds days to the VIP period, counting from today when the period
// already ended.
func (r *AccountRepository) ExtendVip(ctx context.Context, id uuid.UUID, days int, now time.Time) (time.Time, error) {
	var until time.Time
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account domain.Account
		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}

		base := domain.Day(now)
		if account.IsPremium(now) {
			base = domain.Day(account.VipUntil.In(now.Location()))
		}
		until = base.AddDate(0, 0, days)

		return tx.Model(&account).Update("vip_until", until).Error
	})
	return until, err
}
