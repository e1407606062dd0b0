package main

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"yonexus/config"
	"yonexus/internal/application/auth"
	"yonexus/internal/application/tracker"
	"yonexus/internal/infrastructure/cache"
	"yonexus/internal/infrastructure/database"
	"yonexus/internal/infrastructure/oracle"
	"yonexus/internal/infrastructure/repository"
	"yonexus/internal/infrastructure/security"
	"yonexus/internal/leveltable"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	configDir string
	assumeYes bool
)

// app holds what the commands share. It is built once the flags are parsed.
type app struct {
	accounts   *repository.AccountRepository
	characters *repository.CharacterRepository
	xpLogs     *repository.XpLogRepository
	tracker    *tracker.Service
	auth       *auth.AuthUseCase
	cfg        config.Config
}

var a app

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:           "yonexus-admin",
	Short:         "Operator tools for the Yonexus XP tracker",
	SilenceErrors: true,
	SilenceUsage:  true,
	Long: `yonexus-admin works directly on the tracker database, using the same
configuration as the API (app.env in --config-dir, or environment variables).

Destructive commands ask for confirmation unless --yes is given.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return a.setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing app.env")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(usersCmd, logsCmd, xpCmd, historyCmd, vipCmd, snapshotCmd)
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DSN(), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}

	levels, err := leveltable.Load(cfg.LevelTablePath)
	if err != nil {
		return fmt.Errorf("failed to load level table: %w", err)
	}

	registry := oracle.New(
		oracle.NewClient(cfg.TibiaDataURL, &http.Client{}),
		oracle.NewMemoryCache(cfg.OracleCacheSize),
		oracle.Config{MaxAttempts: cfg.OracleMaxAttempts, Timeout: cfg.OracleTimeout},
	)

	a.cfg = cfg
	a.accounts = repository.NewAccountRepository(db)
	a.characters = repository.NewCharacterRepository(db)
	a.xpLogs = repository.NewXpLogRepository(db)
	a.tracker = tracker.NewService(a.characters, a.xpLogs, registry, levels,
		tracker.WithLocation(loc),
		tracker.WithDefaultDailyGoal(cfg.DefaultDailyGoal),
	)
	// The token cache is never touched by the admin commands; the client
	// connects lazily.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	a.auth = auth.NewAuthUseCase(a.accounts, cache.NewTokenCache(rdb), security.NewPasswordHasher(),
		security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret), a.tracker)
	return nil
}

// confirm asks a [y/N] question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	if assumeYes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
	return false
}
