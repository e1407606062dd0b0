package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yonexus/internal/domain"

	"github.com/google/uuid"
)

type LevelTable interface {
	ExperienceFor(level int) (int64, error)
	Entries() []domain.LevelEntry
}

// Oracle is the registry lookup. Mutations use LookupStrict; reads may
// fall back to a stale snapshot.
type Oracle interface {
	LookupStrict(ctx context.Context, name string) (domain.ExternalInfo, error)
	LookupWithFallback(ctx context.Context, name string) (domain.ExternalInfo, bool, error)
}

type CharacterStore interface {
	Create(ctx context.Context, character *domain.Character) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Character, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	Update(ctx context.Context, character *domain.Character, clearHistory bool) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

type Ledger interface {
	Record(ctx context.Context, characterID uuid.UUID, day string, delta int64) error
	OverwriteBatch(ctx context.Context, characterID uuid.UUID, entries []domain.XpLog) error
	List(ctx context.Context, characterID uuid.UUID) ([]domain.XpLog, error)
	Count(ctx context.Context, characterID uuid.UUID) (int64, error)
	Clear(ctx context.Context, characterID uuid.UUID) error
}

// Owner is the authenticated account together with its entitlement, as
// supplied by the account layer.
type Owner struct {
	AccountID uuid.UUID
	Premium   bool
}

// ProfileInput is a profile write. Nil fields keep the stored value on
// update and take defaults on creation; an empty Name keeps the current name.
type ProfileInput struct {
	Name      string
	XpStart   *int64
	DailyGoal *int64
	Goal      GoalInput

	// ConfirmHistoryReset must be set to rename a character that has logged xp.
	ConfirmHistoryReset bool
}

type UpdateResult struct {
	Character      *domain.Character `json:"character"`
	HistoryCleared bool              `json:"history_cleared"`
}

type Service struct {
	characters CharacterStore
	ledger     Ledger
	oracle     Oracle
	table      LevelTable

	now              func() time.Time
	location         *time.Location
	defaultDailyGoal int64
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that decides which calendar day xp is
// logged under.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

func WithDefaultDailyGoal(goal int64) Option {
	return func(s *Service) { s.defaultDailyGoal = goal }
}

func NewService(characters CharacterStore, ledger Ledger, oracle Oracle, table LevelTable, opts ...Option) *Service {
	s := &Service{
		characters: characters,
		ledger:     ledger,
		oracle:     oracle,
		table:      table,
		now:        time.Now,
		location:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewProfile validates a new profile against the live registry and returns
// it unsaved, so callers can store it together with other records.
func (s *Service) NewProfile(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*domain.Character, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: character name is required", domain.ErrInvalidProfile)
	}

	info, err := s.oracle.LookupStrict(ctx, name)
	if err != nil {
		return nil, err
	}
	floor, err := s.table.ExperienceFor(info.Level)
	if err != nil {
		return nil, err
	}

	start, err := resolveStartXp(floor, in.XpStart, nil, false)
	if err != nil {
		return nil, err
	}
	goalLevel, xpGoal, err := ResolveGoal(s.table, info.Level, in.Goal)
	if err != nil {
		return nil, err
	}
	daily, err := resolveDailyGoal(in.DailyGoal, s.defaultDailyGoal)
	if err != nil {
		return nil, err
	}

	return &domain.Character{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      canonicalName(info, name),
		XpStart:   start,
		XpGoal:    xpGoal,
		DailyGoal: daily,
		GoalLevel: goalLevel,
	}, nil
}

// AddProfile creates an additional profile. Free accounts are limited to one.
func (s *Service) AddProfile(ctx context.Context, owner Owner, in ProfileInput) (*domain.Character, error) {
	count, err := s.characters.CountByAccount(ctx, owner.AccountID)
	if err != nil {
		return nil, err
	}
	if !owner.Premium && count >= 1 {
		return nil, domain.ErrTierLimitExceeded
	}

	character, err := s.NewProfile(ctx, owner.AccountID, in)
	if err != nil {
		return nil, err
	}
	if err := s.characters.Create(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// UpdateProfile validates and applies a configuration change. Renaming the
// character clears its ledger in the same transaction.
func (s *Service) UpdateProfile(ctx context.Context, accountID, id uuid.UUID, in ProfileInput) (*UpdateResult, error) {
	current, err := s.owned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	renamed := false
	if n := strings.TrimSpace(in.Name); n != "" && !domain.SameName(n, current.Name) {
		name, renamed = n, true
	}

	logged, err := s.ledger.Count(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	hasHistory := logged > 0
	if renamed && hasHistory && !in.ConfirmHistoryReset {
		return nil, domain.ErrRenameNeedsConfirmation
	}

	info, err := s.oracle.LookupStrict(ctx, name)
	if err != nil {
		return nil, err
	}
	floor, err := s.table.ExperienceFor(info.Level)
	if err != nil {
		return nil, err
	}

	// A rename starts the profile over, so the stored baseline does not apply.
	stored := &current.XpStart
	if renamed {
		stored = nil
	}
	start, err := resolveStartXp(floor, in.XpStart, stored, hasHistory && !renamed)
	if err != nil {
		return nil, err
	}

	goalLevel, xpGoal := current.GoalLevel, current.XpGoal
	switch {
	case in.Goal.IsSet():
		goalLevel, xpGoal, err = ResolveGoal(s.table, info.Level, in.Goal)
	case renamed && current.GoalLevel != nil && *current.GoalLevel <= info.Level:
		goalLevel, xpGoal, err = ResolveGoal(s.table, info.Level, GoalInput{})
	}
	if err != nil {
		return nil, err
	}

	daily, err := resolveDailyGoal(in.DailyGoal, current.DailyGoal)
	if err != nil {
		return nil, err
	}

	updated := *current
	if renamed {
		updated.Name = canonicalName(info, name)
	}
	updated.XpStart = start
	updated.XpGoal = xpGoal
	updated.GoalLevel = goalLevel
	updated.DailyGoal = daily

	if err := s.characters.Update(ctx, &updated, renamed); err != nil {
		return nil, err
	}
	return &UpdateResult{Character: &updated, HistoryCleared: renamed && hasHistory}, nil
}

func (s *Service) DeleteProfile(ctx context.Context, accountID, id uuid.UUID) error {
	return s.characters.Delete(ctx, accountID, id)
}

func (s *Service) ListProfiles(ctx context.Context, accountID uuid.UUID) ([]domain.Character, error) {
	return s.characters.ListByAccount(ctx, accountID)
}

// RecordDailyXp adds delta to today's ledger entry and returns the day used.
func (s *Service) RecordDailyXp(ctx context.Context, accountID, id uuid.UUID, delta int64) (string, error) {
	character, err := s.owned(ctx, accountID, id)
	if err != nil {
		return "", err
	}
	day := s.today()
	if err := s.ledger.Record(ctx, character.ID, day, delta); err != nil {
		return "", err
	}
	return day, nil
}

// ImportXp backfills the ledger, replacing the delta of every given day.
// When a day repeats, the last value wins.
func (s *Service) ImportXp(ctx context.Context, accountID, id uuid.UUID, entries []domain.XpLog) (int, error) {
	character, err := s.owned(ctx, accountID, id)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(entries))
	batch := make([]domain.XpLog, 0, len(entries))
	for _, e := range entries {
		day, err := domain.ParseDay(e.Day)
		if err != nil {
			return 0, fmt.Errorf("%w: bad day %q", domain.ErrInvalidProfile, e.Day)
		}
		if i, seen := index[day]; seen {
			batch[i].Xp = e.Xp
			continue
		}
		index[day] = len(batch)
		batch = append(batch, domain.XpLog{Day: day, Xp: e.Xp})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := s.ledger.OverwriteBatch(ctx, character.ID, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (s *Service) ResetHistory(ctx context.Context, accountID, id uuid.UUID) error {
	character, err := s.owned(ctx, accountID, id)
	if err != nil {
		return err
	}
	return s.ledger.Clear(ctx, character.ID)
}

// GetSnapshot computes the progress metrics of a profile. When the registry
// is down it uses the last known character data and flags the snapshot as
// stale.
func (s *Service) GetSnapshot(ctx context.Context, accountID, id uuid.UUID) (*domain.Snapshot, error) {
	character, err := s.owned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.List(ctx, character.ID)
	if err != nil {
		return nil, err
	}

	info, stale, err := s.oracle.LookupWithFallback(ctx, character.Name)
	if err != nil {
		return nil, err
	}

	snap := BuildSnapshot(*character, entries, info, stale, s.today())
	return &snap, nil
}

func (s *Service) LevelTable() []domain.LevelEntry {
	return s.table.Entries()
}

func (s *Service) owned(ctx context.Context, accountID, id uuid.UUID) (*domain.Character, error) {
	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if character.AccountID != accountID {
		return nil, domain.ErrProfileNotFound
	}
	return character, nil
}

func (s *Service) today() string {
	return domain.FormatDay(s.now().In(s.location))
}

func canonicalName(info domain.ExternalInfo, fallback string) string {
	if info.Name != "" {
		return info.Name
	}
	return fallback
}
