package container

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/dispatcher"
	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/application/service"
	"github.com/procureflow/registry/internal/application/store"
	"github.com/procureflow/registry/internal/application/workflow"
	"github.com/procureflow/registry/internal/domain/event"
	"github.com/procureflow/registry/internal/infrastructure/metrics"
	"github.com/procureflow/registry/internal/infrastructure/pdf"
	"github.com/procureflow/registry/internal/infrastructure/persistence/memory"
	"github.com/procureflow/registry/internal/infrastructure/persistence/sqlite"
	"github.com/procureflow/registry/internal/infrastructure/spreadsheet"
	"github.com/procureflow/registry/internal/infrastructure/storage"
	"github.com/procureflow/registry/migrations"
	"github.com/procureflow/registry/pkg/database"
	"github.com/procureflow/registry/pkg/utils"
)

// StoreBundle holds the persistence components.
type StoreBundle struct {
	// DB is nil for the memory driver
	DB      *database.DB
	Blobs   port.BlobStore
	Records *store.RecordStore
	Users   *store.UserStore
}

// AdapterBundle holds the file format and filesystem adapters.
type AdapterBundle struct {
	Codec     port.SpreadsheetCodec
	Renderer  port.DocumentRenderer
	Inspector port.AttachmentInspector
	Exports   port.ExportStorage
}

// ProvideStores opens the configured blob store and builds the collections
// on top of it. For sqlite, pending migrations run first.
func ProvideStores(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*StoreBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	bundle := &StoreBundle{}
	switch cfg.Driver {
	case DriverMemory:
		bundle.Blobs = memory.NewBlobStore()
		logger.Warn("Using in-memory storage; nothing will be persisted")
	default:
		db, err := database.New(ctx, database.Config{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, err
		}

		var source fs.FS = migrations.FS
		if cfg.MigrationsDir != "" {
			source = os.DirFS(cfg.MigrationsDir)
		}
		if _, err := database.NewMigrator(db, logger).Run(ctx, source); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		bundle.DB = db
		bundle.Blobs = sqlite.NewBlobStore(db, logger)
	}

	bundle.Records = store.NewRecordStore(bundle.Blobs, logger)
	bundle.Users = store.NewUserStore(bundle.Blobs, logger)
	return bundle, nil
}

// ProvideAdapters creates the spreadsheet, PDF and export file adapters.
func ProvideAdapters(cfg *StorageConfig, logger *zap.Logger) (*AdapterBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &AdapterBundle{
		Codec:     spreadsheet.NewCodec(logger),
		Renderer:  pdf.NewRenderer(cfg.Location(), logger),
		Inspector: pdf.NewInspector(logger),
		Exports:   storage.NewExportStorage(cfg.ExportDir, logger),
	}, nil
}

// ProvideDispatcher creates the event dispatcher with the metrics and
// activity log subscribers attached.
func ProvideDispatcher(m *metrics.Metrics, logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	d := dispatcher.NewDispatcher(
		dispatcher.WithLogger(utils.NewLoggerAdapter(logger)),
	)

	if m != nil {
		m.Subscribe(d)
	}
	d.SubscribeAll("activity_log", activityLogHandler(logger.Named("activity")))
	return d, nil
}

// activityLogHandler writes one structured line per registry event
func activityLogHandler(logger *zap.Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		fields := []zap.Field{
			zap.String("event_id", evt.ID),
			zap.String("event_type", evt.Type.String()),
			zap.Time("at", evt.Timestamp),
		}
		if evt.RecordID != "" {
			fields = append(fields, zap.String("record_id", evt.RecordID))
		}
		if evt.Actor != "" {
			fields = append(fields, zap.String("actor", evt.Actor))
		}
		if len(evt.Payload) > 0 {
			fields = append(fields, zap.Any("payload", evt.Payload))
		}
		logger.Info("Registry event", fields...)
		return nil
	}
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Stores     *StoreBundle
	Adapters   *AdapterBundle
	Engine     workflow.WorkflowEngine
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Stores == nil {
		return nil, fmt.Errorf("stores are required")
	}
	if deps.Adapters == nil {
		return nil, fmt.Errorf("adapters are required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("workflow engine is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := utils.NewLoggerAdapter(deps.Logger)
	opts := []service.Option{service.WithInspector(deps.Adapters.Inspector)}
	if deps.Dispatcher != nil {
		opts = append(opts, service.WithDispatcher(deps.Dispatcher))
	}

	return &ServiceBundle{
		Records: service.NewRecordService(
			deps.Stores.Records,
			deps.Engine,
			serviceLogger,
			opts...,
		),
		Transfer: service.NewTransferService(
			deps.Stores.Records,
			deps.Adapters.Codec,
			deps.Adapters.Renderer,
			serviceLogger,
			opts...,
		),
		Auth: service.NewAuthService(
			deps.Stores.Users,
			serviceLogger,
			opts...,
		),
	}, nil
}
