// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/ticktree/internal/domain"
	"github.com/runoshun/ticktree/internal/infra/config"
	"github.com/runoshun/ticktree/internal/infra/identity"
	"github.com/runoshun/ticktree/internal/infra/kv"
	"github.com/runoshun/ticktree/internal/infra/logging"
	"github.com/runoshun/ticktree/internal/infra/notify"
	"github.com/runoshun/ticktree/internal/infra/planfile"
	"github.com/runoshun/ticktree/internal/infra/timerstore"
	"github.com/runoshun/ticktree/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir    string // Directory holding the timer database
	DBPath     string // Path to the timer database
	ConfigPath string // Path to the config file
}

// newConfig resolves the data directory. TICKTREE_DATA_DIR wins; otherwise
// the database lives under XDG_DATA_HOME/ticktree, falling back to
// ~/.local/share/ticktree.
func newConfig(configPath string) (Config, error) {
	dataDir := os.Getenv("TICKTREE_DATA_DIR")
	if dataDir == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return Config{}, fmt.Errorf("resolve data dir: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		dataDir = domain.DefaultDataDir(dataHome)
	}
	return Config{
		DataDir:    dataDir,
		DBPath:     domain.DBPath(dataDir),
		ConfigPath: configPath,
	}, nil
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Timers        domain.TimerRepository
	Notifier      domain.Notifier
	IDs           domain.IDSource
	Clock         domain.Clock
	Plans         domain.PlanCodec
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Logger    *logging.Logger
	AppConfig *domain.Config

	// Configuration
	Config Config

	store *kv.SQLite
}

// New creates a new Container: config is loaded, the timer database opened,
// logging and notifications wired per the effective configuration.
func New() (*Container, error) {
	configLoader := config.NewLoader()
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	cfg, err := newConfig(configLoader.Path())
	if err != nil {
		return nil, err
	}

	store, err := kv.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open timer database: %w", err)
	}

	notifier, err := buildNotifier(appConfig)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Container{
		Timers:        timerstore.New(store),
		Notifier:      notifier,
		IDs:           identity.UUIDSource{},
		Clock:         domain.RealClock{},
		Plans:         planfile.Codec{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(configLoader.Path()),
		Logger:        logging.New(appConfig.Log.File, logging.ParseLevel(appConfig.Log.Level)),
		AppConfig:     appConfig,
		Config:        cfg,
		store:         store,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// Logging is disabled and the default configuration is in effect.
func NewWithDeps(cfg Config, timers domain.TimerRepository, notifier domain.Notifier, ids domain.IDSource, clock domain.Clock) *Container {
	return &Container{
		Timers:    timers,
		Notifier:  notifier,
		IDs:       ids,
		Clock:     clock,
		Plans:     planfile.Codec{},
		Logger:    logging.New("", logging.ParseLevel("")),
		AppConfig: domain.DefaultConfig(),
		Config:    cfg,
	}
}

// buildNotifier wires the notification sink configured in cfg.
func buildNotifier(cfg *domain.Config) (domain.Notifier, error) {
	if !cfg.Notify.Enabled || cfg.Notify.Command == "" {
		return notify.Discard{}, nil
	}
	n, err := notify.NewCommand(cfg.Notify.Command)
	if err != nil {
		return nil, fmt.Errorf("notify command: %w", err)
	}
	return n, nil
}

// ApplyConfig swaps the parts of the container that follow the config file:
// the notifier, the logger, and the effective config itself. The run loop
// calls this when the file changes on disk.
func (c *Container) ApplyConfig(cfg *domain.Config) error {
	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
	c.Logger = logging.New(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
	c.Notifier = notifier
	c.AppConfig = cfg
	return nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	var firstErr error
	if c.Logger != nil {
		if err := c.Logger.Close(); err != nil {
			firstErr = err
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// UseCase factory methods

// CreateTimerUseCase returns a new CreateTimer use case.
func (c *Container) CreateTimerUseCase() *usecase.CreateTimer {
	return usecase.NewCreateTimer(c.Timers, c.IDs, c.Logger)
}

// ListForestUseCase returns a new ListForest use case.
func (c *Container) ListForestUseCase() *usecase.ListForest {
	return usecase.NewListForest(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// ShowTimerUseCase returns a new ShowTimer use case.
func (c *Container) ShowTimerUseCase() *usecase.ShowTimer {
	return usecase.NewShowTimer(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// StartTimerUseCase returns a new StartTimer use case.
func (c *Container) StartTimerUseCase() *usecase.StartTimer {
	return usecase.NewStartTimer(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// StopTimerUseCase returns a new StopTimer use case.
func (c *Container) StopTimerUseCase() *usecase.StopTimer {
	return usecase.NewStopTimer(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// ResetTimerUseCase returns a new ResetTimer use case.
func (c *Container) ResetTimerUseCase() *usecase.ResetTimer {
	return usecase.NewResetTimer(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// DeleteTimerUseCase returns a new DeleteTimer use case.
func (c *Container) DeleteTimerUseCase() *usecase.DeleteTimer {
	return usecase.NewDeleteTimer(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// EvaluateForestUseCase returns a new EvaluateForest use case.
func (c *Container) EvaluateForestUseCase() *usecase.EvaluateForest {
	return usecase.NewEvaluateForest(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// WatchForestUseCase returns a new WatchForest use case.
func (c *Container) WatchForestUseCase() *usecase.WatchForest {
	return usecase.NewWatchForest(c.Timers, c.Notifier, c.Clock, c.Logger)
}

// ImportPlanUseCase returns a new ImportPlan use case.
func (c *Container) ImportPlanUseCase() *usecase.ImportPlan {
	return usecase.NewImportPlan(c.Timers, c.Plans, c.IDs, c.Logger)
}

// ExportPlanUseCase returns a new ExportPlan use case.
func (c *Container) ExportPlanUseCase() *usecase.ExportPlan {
	return usecase.NewExportPlan(c.Timers, c.Plans)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader, c.ConfigManager)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
