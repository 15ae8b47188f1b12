package main

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/embedding"
	"github.com/erpvec/erpvec/v1/graph"
	"github.com/erpvec/erpvec/v1/history"
	"github.com/erpvec/erpvec/v1/logger"
	"github.com/erpvec/erpvec/v1/metrics"
	"github.com/erpvec/erpvec/v1/odoo"
	"github.com/erpvec/erpvec/v1/qdrant"
	"github.com/erpvec/erpvec/v1/query"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/syncer"
	"github.com/erpvec/erpvec/v1/vectordb"
)

const (
	appTimeout   = 30 * time.Second
	timeRounding = time.Millisecond
)

// withApp assembles a container from the base modules plus the
// command's extras, populates the given targets, and starts it. The
// returned stop function runs the shutdown hooks; commands defer it.
func withApp(ctx context.Context, targets []any, extras ...fx.Option) (func(), error) {
	opts := []fx.Option{baseModules()}
	opts = append(opts, extras...)
	opts = append(opts, fx.Populate(targets...))

	app := fx.New(opts...)

	startCtx, cancel := context.WithTimeout(ctx, appTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, err
	}

	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), appTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}, nil
}

// baseModules is what every command needs: logging, metrics, and the
// vector store.
func baseModules() fx.Option {
	return fx.Options(
		fx.NopLogger,

		fx.Provide(
			newLoggerConfig,
			metrics.NewConfig,
			newQdrantConfig,
		),

		logger.FXModule,
		metrics.FXModule,
		qdrant.FXModule,
	)
}

// erpModules wires the full write path: the ERP client, the catalog
// loaded live from the ERP schema, the embedding client, and the sync
// pipeline.
func erpModules() fx.Option {
	return fx.Options(
		fx.Provide(
			odoo.NewConfig,
			schema.NewCatalog,
			newSyncerConfig,
		),

		odoo.FXModule,
		embedding.FXModule,
		syncer.FXModule,

		fx.Invoke(observeERPClient),
	)
}

// repairModules wires the ERP and embedding clients for orphan repair
// without binding the catalog to the ERP schema; validation reads the
// catalog from the store.
func repairModules() fx.Option {
	return fx.Options(
		fx.Provide(
			odoo.NewConfig,
			odoo.NewClient,
			newSyncerConfig,
		),

		embedding.FXModule,
		syncer.FXModule,

		fx.Invoke(observeERPClient),
	)
}

// observeERPClient feeds the client's call telemetry into Prometheus.
func observeERPClient(c *odoo.Client, m metrics.Collector) {
	c.SetObserver(m)
}

// storeCatalogModules rebuilds the catalog from the schema points the
// sync pipeline wrote, so read-only commands need no ERP connection.
func storeCatalogModules() fx.Option {
	return fx.Provide(
		func(db vectordb.Service, cfg *qdrant.Config) schema.Source {
			return schema.NewStoreSource(db, cfg.Collection)
		},
		schema.NewCatalog,
	)
}

func queryModules() fx.Option {
	return fx.Options(
		fx.Provide(newQueryConfig),
		query.FXModule,
	)
}

func graphModules() fx.Option {
	return fx.Options(
		fx.Provide(newGraphConfig),
		graph.FXModule,
	)
}

func historyModules() fx.Option {
	return fx.Options(
		fx.Provide(history.DefaultConfig),
		history.FXModule,
	)
}

func newLoggerConfig() logger.Config {
	cfg := logger.NewConfig()
	if flagVerbose {
		cfg = cfg.WithLevel(logger.Debug).WithDevelopment(true)
	}
	return cfg
}

func newQdrantConfig() *qdrant.Config {
	cfg := qdrant.NewConfig()
	if flagCollection != "" {
		cfg.Collection = flagCollection
	}
	return cfg
}

func newSyncerConfig(q *qdrant.Config, e *embedding.Config) *syncer.Config {
	cfg := syncer.DefaultConfig()
	cfg.Collection = q.Collection
	if e.Dimensions > 0 {
		cfg.VectorSize = uint64(e.Dimensions)
	}
	return cfg
}

func newQueryConfig(q *qdrant.Config) *query.Config {
	cfg := query.DefaultConfig()
	cfg.Collection = q.Collection
	return cfg
}

func newGraphConfig(q *qdrant.Config) *graph.Config {
	cfg := graph.DefaultConfig()
	cfg.Collection = q.Collection
	return cfg
}
