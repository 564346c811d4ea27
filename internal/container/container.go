package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/dispatcher"
	"github.com/procureflow/registry/internal/application/service"
	"github.com/procureflow/registry/internal/application/workflow"
	"github.com/procureflow/registry/internal/infrastructure/metrics"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and close in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	stores     *StoreBundle
	adapters   *AdapterBundle
	metrics    *metrics.Metrics
	dispatcher dispatcher.Dispatcher
	engine     workflow.WorkflowEngine
	services   *ServiceBundle

	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Records  service.RecordService
	Transfer service.TransferService
	Auth     service.AuthService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Stores (database, migrations, collections)
// 2. Adapters (spreadsheet, PDF, export files)
// 3. Metrics and event dispatcher
// 4. Workflow engine and application services
// 5. Seed data
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	stores, err := ProvideStores(ctx, &c.config.Database, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}
	c.stores = stores
	c.logger.Info("Stores initialized", zap.String("driver", c.config.Database.Driver))

	adapters, err := ProvideAdapters(&c.config.Storage, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize adapters: %w", err)
	}
	c.adapters = adapters

	c.metrics = metrics.New()
	c.metrics.RecordCount(func() int {
		return len(c.stores.Records.Load(context.Background()))
	})

	disp, err := ProvideDispatcher(c.metrics, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dispatcher: %w", err)
	}
	c.dispatcher = disp

	c.engine = workflow.NewEngine()
	services, err := ProvideServices(&ServiceDeps{
		Stores:     c.stores,
		Adapters:   c.adapters,
		Engine:     c.engine,
		Dispatcher: c.dispatcher,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	if c.config.Seed {
		if _, err := c.services.Records.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed registry: %w", err)
		}
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.stores != nil && c.stores.DB != nil {
		if err := c.stores.DB.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return errors.Join(errs...)
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, healthy bool, msg string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: msg}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.stores == nil:
		set("storage", false, "not initialized")
	case c.stores.DB == nil:
		set("storage", true, "in-memory")
	default:
		if err := c.stores.DB.PingContext(ctx); err != nil {
			set("storage", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			set("storage", true, "")
		}
	}

	if c.dispatcher != nil {
		set("dispatcher", true, "")
	} else {
		set("dispatcher", false, "not initialized")
	}

	if c.services != nil {
		set("services", true, "")
	} else {
		set("services", false, "not initialized")
	}

	return status
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Stores returns the persistence components.
func (c *Container) Stores() *StoreBundle {
	return c.stores
}

// Adapters returns the file format adapters.
func (c *Container) Adapters() *AdapterBundle {
	return c.adapters
}

// Metrics returns the Prometheus collectors.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// WorkflowEngine returns the workflow engine.
func (c *Container) WorkflowEngine() workflow.WorkflowEngine {
	return c.engine
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}
