package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/erpvec/erpvec/v1/qdrant"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection health and point counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			db  vectordb.Service
			cfg *qdrant.Config
		)
		stop, err := withApp(cmd.Context(), []any{&db, &cfg})
		if err != nil {
			return err
		}
		defer stop()

		ctx := cmd.Context()

		info, err := db.GetCollection(ctx, cfg.Collection)
		if err != nil {
			return err
		}
		fmt.Printf("collection %s: status %s, vector size %d\n", info.Name, info.Status, info.VectorSize)

		for _, pointType := range []string{schema.PointTypeRecord, schema.PointTypeSchema, schema.PointTypeEdge} {
			n, err := countByType(ctx, db, cfg.Collection, pointType)
			if err != nil {
				return err
			}
			fmt.Printf("  %-14s %d\n", pointType, n)
		}

		// Per-model counts need the schema points; a never-synced
		// collection simply has none to report.
		models, err := schema.NewStoreSource(db, cfg.Collection).LoadModels(ctx)
		if err != nil {
			return nil
		}
		for _, m := range models {
			n, err := db.Count(ctx, vectordb.CountRequest{
				CollectionName: cfg.Collection,
				Filter: vectordb.NewFilterSet(vectordb.Must(
					vectordb.NewMatch(schema.PayloadModelName, m.ModelName),
					vectordb.NewMatch(schema.PayloadPointType, schema.PointTypeRecord),
				)),
				Exact: true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("  %-40s %d records\n", m.ModelName, n)
		}
		return nil
	},
}

var (
	clearModels  []string
	clearAll     bool
	clearDryRun  bool
	clearConfirm bool
)

var clearCmd = &cobra.Command{
	Use:   "clear-data",
	Short: "Delete stored points by model, or everything",
	Long: `Deletes the record, schema, and edge points of the given models, or the
whole dataset with --all. Refuses to run without --dry-run (preview) or
--confirm (actually delete).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearDryRun && !clearConfirm {
			return fmt.Errorf("refusing to delete: pass --dry-run to preview or --confirm to proceed")
		}
		if !clearAll && len(clearModels) == 0 {
			return fmt.Errorf("nothing selected: pass --model or --all")
		}
		if clearAll && len(clearModels) > 0 {
			return fmt.Errorf("--all and --model are mutually exclusive")
		}

		var deleteFilter *vectordb.FilterSet
		if clearAll {
			deleteFilter = vectordb.NewFilterSet(vectordb.Must(
				vectordb.NewMatchAny(schema.PayloadPointType,
					schema.PointTypeRecord, schema.PointTypeSchema, schema.PointTypeEdge),
			))
		} else {
			sort.Strings(clearModels)
			names := make([]any, len(clearModels))
			for i, m := range clearModels {
				names[i] = m
			}
			deleteFilter = vectordb.NewFilterSet(vectordb.Must(
				vectordb.NewMatchAny(schema.PayloadModelName, names...),
			))
		}

		var (
			db  vectordb.Service
			cfg *qdrant.Config
		)
		stop, err := withApp(cmd.Context(), []any{&db, &cfg})
		if err != nil {
			return err
		}
		defer stop()

		ctx := cmd.Context()

		matched, err := db.Count(ctx, vectordb.CountRequest{
			CollectionName: cfg.Collection,
			Filter:         deleteFilter,
			Exact:          true,
		})
		if err != nil {
			return err
		}

		if clearDryRun {
			fmt.Printf("would delete %d points from %s\n", matched, cfg.Collection)
			return nil
		}

		if err := db.DeleteByFilter(ctx, cfg.Collection, deleteFilter); err != nil {
			return err
		}
		fmt.Printf("deleted %d points from %s\n", matched, cfg.Collection)
		return nil
	},
}

func countByType(ctx context.Context, db vectordb.Service, collection, pointType string) (uint64, error) {
	return db.Count(ctx, vectordb.CountRequest{
		CollectionName: collection,
		Filter: vectordb.NewFilterSet(vectordb.Must(
			vectordb.NewMatch(schema.PayloadPointType, pointType),
		)),
		Exact: true,
	})
}

func init() {
	clearCmd.Flags().StringSliceVar(&clearModels, "model", nil, "models whose points to delete")
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "delete every stored point")
	clearCmd.Flags().BoolVar(&clearDryRun, "dry-run", false, "count matches without deleting")
	clearCmd.Flags().BoolVar(&clearConfirm, "confirm", false, "actually delete")
	rootCmd.AddCommand(statusCmd, clearCmd)
}
