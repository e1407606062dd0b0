package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"yonexus/internal/application/tracker"
	"yonexus/internal/domain"
	"yonexus/internal/infrastructure/cache"
	"yonexus/internal/infrastructure/repository"
	"yonexus/internal/infrastructure/security"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const minPasswordLength = 6

// ProfileBuilder validates the first character of a new account.
type ProfileBuilder interface {
	NewProfile(ctx context.Context, accountID uuid.UUID, in tracker.ProfileInput) (*domain.Character, error)
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Character tracker.ProfileInput
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUseCase struct {
	accounts     *repository.AccountRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	profiles     ProfileBuilder
	now          func() time.Time
}

func NewAuthUseCase(
	ar *repository.AccountRepository,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	pb ProfileBuilder,
) *AuthUseCase {
	return &AuthUseCase{
		accounts:     ar,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		profiles:     pb,
		now:          time.Now,
	}
}

// Register creates the account and its first character together. Nothing is
// stored when either is rejected.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*domain.Account, *domain.Character, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateAccount(username, email, in.Password); err != nil {
		return nil, nil, err
	}

	accountID := uuid.New()
	character, err := uc.profiles.NewProfile(ctx, accountID, in.Character)
	if err != nil {
		return nil, nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}
	account := &domain.Account{
		ID:       accountID,
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := uc.accounts.CreateWithCharacter(ctx, account, character); err != nil {
		return nil, nil, err
	}
	return account, character, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, login, password string) (*Tokens, error) {
	account, err := uc.accounts.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := uc.hasher.Compare(account.Password, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.generateAndSaveTokens(ctx, account.ID.String())
}

// Refresh rotates a refresh token. The old token stops working even when
// issuing the new pair fails.
func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (*Tokens, error) {
	accountID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}
	if cachedID != accountID {
		return nil, domain.ErrSessionExpired
	}
	if err := uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken); err != nil {
		return nil, err
	}

	return uc.generateAndSaveTokens(ctx, accountID)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

// ValidateAccess returns the account id carried by an access token.
func (uc *AuthUseCase) ValidateAccess(token string) (uuid.UUID, error) {
	sub, err := uc.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

// Owner loads the entitlement of an account for the tracker.
func (uc *AuthUseCase) Owner(ctx context.Context, accountID uuid.UUID) (tracker.Owner, error) {
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return tracker.Owner{}, err
	}
	return tracker.Owner{AccountID: account.ID, Premium: account.IsPremium(uc.now())}, nil
}

// GrantVip extends the VIP period of an account and returns its new end.
func (uc *AuthUseCase) GrantVip(ctx context.Context, accountID uuid.UUID, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, fmt.Errorf("%w: vip days must be positive", domain.ErrInvalidAccount)
	}
	return uc.accounts.ExtendVip(ctx, accountID, days, uc.now())
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, accountID string) (*Tokens, error) {
	access, refresh, err := uc.tokenManager.Generate(accountID)
	if err != nil {
		return nil, err
	}

	if err := uc.tokenCache.SaveRefresh(ctx, accountID, refresh); err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func validateAccount(username, email, password string) error {
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("%w: username must be 3 to 50 characters", domain.ErrInvalidAccount)
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 100 {
		return fmt.Errorf("%w: invalid email", domain.ErrInvalidAccount)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", domain.ErrInvalidAccount, minPasswordLength)
	}
	return nil
}
