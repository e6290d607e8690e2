package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/config"
	"github.com/marco/moviedb/internal/logging"
	"github.com/marco/moviedb/internal/storage"
	"github.com/marco/moviedb/internal/trailer"
	"github.com/marco/moviedb/internal/watchlist"
)

const sqliteFileName = "moviedb.db"

// commandContext lazily builds the services a command needs and tears them
// down once the command returns.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	logCloser  io.Closer
	loggerErr  error

	clientOnce sync.Once
	client     *catalog.Client
	clientErr  error

	storeOnce sync.Once
	store     *watchlist.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := defaultConfigPath
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.logCloser, c.loggerErr = logging.New(cfg.LoggingOptions())
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) catalogClient() (*catalog.Client, error) {
	c.clientOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.clientErr = err
			return
		}
		c.client, c.clientErr = catalog.NewClientWithConfig(catalog.ClientConfig{
			BaseURL:     cfg.Catalog.BaseURL,
			BearerToken: cfg.Catalog.BearerToken,
			Language:    cfg.Catalog.Language,
			Logger:      logger,
		})
	})
	return c.client, c.clientErr
}

func (c *commandContext) trailerResolver() (*trailer.Resolver, error) {
	client, err := c.catalogClient()
	if err != nil {
		return nil, err
	}
	return trailer.NewResolver(client, c.logger), nil
}

// watchlistStore opens the configured storage backend and loads the
// watchlist from it.
func (c *commandContext) watchlistStore() (*watchlist.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.storeErr = err
			return
		}

		var st storage.Storage
		switch cfg.Storage.Backend {
		case config.BackendSQLite:
			st, err = storage.NewSQLiteStorage(filepath.Join(cfg.Storage.Dir, sqliteFileName))
		default:
			st, err = storage.NewFileStorage(cfg.Storage.Dir)
		}
		if err != nil {
			c.storeErr = fmt.Errorf("open watchlist storage: %w", err)
			return
		}

		c.store = watchlist.NewStore(st, watchlist.WithLogger(logger), watchlist.WithSlot(cfg.Storage.Slot))
		c.store.Initialize()
	})
	return c.store, c.storeErr
}

// fileStorage opens the file backend directly, for watching.
func (c *commandContext) fileStorage() (*storage.FileStorage, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend != config.BackendFile {
		return nil, fmt.Errorf("watching requires the %q storage backend, configured %q", config.BackendFile, cfg.Storage.Backend)
	}
	return storage.NewFileStorage(cfg.Storage.Dir)
}

func (c *commandContext) debounceDelay() time.Duration {
	if c.config == nil {
		return 0
	}
	return time.Duration(c.config.Search.DebounceMs) * time.Millisecond
}

func (c *commandContext) close() error {
	var errs []error
	if c.store != nil {
		if err := c.store.Teardown(); err != nil {
			errs = append(errs, fmt.Errorf("close watchlist: %w", err))
		}
	}
	if c.logCloser != nil {
		if err := c.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
	}
	return errors.Join(errs...)
}
