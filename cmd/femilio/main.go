// Command femilio is the patient-records front for a small medical practice.
// It drives the same flows the mobile screens do: sign-in, dashboards, the
// add/edit patient flow, galleries, and the destructive reset.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crptmaveric/femilio-evidence/internal/blob"
	"github.com/crptmaveric/femilio-evidence/internal/config"
	"github.com/crptmaveric/femilio-evidence/internal/migrate"
	"github.com/crptmaveric/femilio-evidence/internal/repository/sqlite"
	"github.com/crptmaveric/femilio-evidence/internal/service"
	"github.com/crptmaveric/femilio-evidence/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "femilio",
		Short:         "Local doctor and patient records for a small practice",
		Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		loginCmd(), logoutCmd(), whoamiCmd(), registerCmd(), dashboardCmd(), resetCmd(),
		doctorsCmd(), patientsCmd(), galleryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the opened stores and services for one command invocation.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *sqlite.DB
	kv       *bolt.DB
	sessions *session.Store
	auth     service.AuthService
	doctors  service.DoctorService
	patients service.PatientService
}

// newApp loads config, opens both stores, and initializes the schema. Schema
// initialization failure is fatal: there is nothing useful to do without it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(ctx, cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate.Up(ctx, db.SQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := migrate.Seed(ctx, db.SQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed accounts: %w", err)
	}

	kv, err := blob.OpenFile(cfg.BlobPath())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	blobs, err := blob.New(kv)
	if err != nil {
		_ = kv.Close()
		_ = db.Close()
		return nil, err
	}
	sessions, err := session.New(kv)
	if err != nil {
		_ = kv.Close()
		_ = db.Close()
		return nil, err
	}

	users := sqlite.NewUserRepo(db)
	patientsRepo := sqlite.NewPatientRepo(db)

	a := &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		kv:       kv,
		sessions: sessions,
		auth:     service.NewAuthService(users, sessions, migrate.Resetter{DB: db.SQL}),
		doctors:  service.NewDoctorService(users),
		patients: service.NewPatientService(patientsRepo, blobs, blobs),
	}
	return a, nil
}

func (a *app) close() {
	_ = a.kv.Close()
	_ = a.db.Close()
	_ = a.log.Sync()
}

// run wraps a command body with app setup/teardown and signal handling.
func run(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		return fn(ctx, a, cmd, args)
	}
}

// buildLogger constructs the zap logger from config.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// currentUser loads the persisted session or tells the caller to sign in.
func currentUser(a *app) (session.Identity, error) {
	id, err := a.sessions.Load()
	if err != nil {
		return session.Identity{}, fmt.Errorf("not signed in (run `femilio login`): %w", err)
	}
	return id, nil
}
