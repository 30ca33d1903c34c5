package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/cli"
	"github.com/alexanderramin/shiftbook/internal/config"
	"github.com/alexanderramin/shiftbook/internal/db"
	"github.com/alexanderramin/shiftbook/internal/logging"
	"github.com/alexanderramin/shiftbook/internal/remote"
	"github.com/alexanderramin/shiftbook/internal/repository"
	"github.com/alexanderramin/shiftbook/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stores is the backend-specific half of the wiring.
type stores struct {
	companies repository.CompanyRepo
	shifts    repository.ShiftRepo
	uow       db.UnitOfWork
	auth      auth.Backend
	// attach hands the session to stores that authenticate each call.
	attach    func(*auth.Session)
	close     func()
}

func run(args []string) error {
	global, err := cli.ParseGlobalFlags(args)
	if err != nil {
		return err
	}

	configPath := global.ConfigPath
	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	logger, err := logging.New(cfg.Log, global.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *stores
	switch cfg.Backend {
	case config.BackendRemote:
		st = remoteStores(cfg, logger)
	default:
		if st, err = localStores(cfg, logger); err != nil {
			return err
		}
	}
	defer st.close()

	sessionPath := filepath.Join(filepath.Dir(configPath), "session.toml")
	session := auth.NewSession(st.auth, auth.NewFileStore(sessionPath), logger)
	if st.attach != nil {
		st.attach(session)
	}
	if err := session.Restore(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	observer := service.NewLogUseCaseObserver(logger)
	reports := service.NewReportService(st.companies, st.shifts, session, cfg.FirstWeekday(), observer)
	app := &cli.App{
		Session:   session,
		Companies: service.NewCompanyService(st.companies, st.shifts, st.uow, session, observer),
		Shifts:    service.NewShiftService(st.shifts, st.companies, session, observer),
		Reports:   reports,
		Export:    service.NewExportService(reports, observer),
		Backend:   cfg.Backend,
		Currency:  cfg.Currency,
		Logger:    logger,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	root := cli.NewRootCmd(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func localStores(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if status, err := db.Status(database); err != nil {
		logger.Warn("reading schema version", zap.Error(err))
	} else if status.Dirty {
		logger.Warn("database schema is dirty", zap.Uint("version", status.CurrentVersion))
	} else {
		logger.Debug("database ready",
			zap.String("path", cfg.Database.Path),
			zap.Uint("schema_version", status.CurrentVersion),
			zap.Uint("latest_version", status.LatestVersion))
	}
	return &stores{
		companies: repository.NewSQLiteCompanyRepo(database),
		shifts:    repository.NewSQLiteShiftRepo(database),
		uow:       db.NewSQLiteUnitOfWork(database),
		auth:      auth.NewLocalBackend(repository.NewSQLiteUserRepo(database)),
		close:     func() { _ = database.Close() },
	}, nil
}

// remoteStores shares one HTTP client between the data stores and the auth
// backend. The hosted store has no transactions, so uow stays nil.
func remoteStores(cfg *config.Config, logger *zap.Logger) *stores {
	client := remote.NewClient(cfg.Remote, nil, remote.NewLogObserver(logger))
	return &stores{
		companies: remote.NewCompanyStore(client),
		shifts:    remote.NewShiftStore(client),
		auth:      remote.NewAuthBackend(client),
		attach:    func(s *auth.Session) { client.SetTokenSource(s) },
		close:     client.Close,
	}
}
