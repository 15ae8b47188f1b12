package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erpvec/erpvec/v1/metrics"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/syncer"
)

var (
	syncLimit     int
	syncWithEdges bool
	syncDomain    string
)

var syncCmd = &cobra.Command{
	Use:   "sync-model <model>...",
	Short: "Project ERP models into the vector store",
	Long: `Fetches records from the ERP, embeds them, and upserts them as points.
Each model also gets a schema metadata point, so read-only commands can
rebuild the catalog from the store alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var domain []any
		if syncDomain != "" {
			if err := json.Unmarshal([]byte(syncDomain), &domain); err != nil {
				return fmt.Errorf("parse --domain: %w", err)
			}
		}

		var (
			s         *syncer.Syncer
			catalog   *schema.Catalog
			collector metrics.Collector
		)
		stop, err := withApp(cmd.Context(), []any{&s, &catalog, &collector}, erpModules())
		if err != nil {
			return err
		}
		defer stop()

		ctx := cmd.Context()
		if err := catalog.Initialize(ctx); err != nil {
			return err
		}

		for _, model := range args {
			result, err := s.SyncModel(ctx, syncer.Options{
				Model:     model,
				Domain:    domain,
				Limit:     syncLimit,
				WithEdges: syncWithEdges,
			})
			if err != nil {
				return err
			}

			collector.RecordSyncRun(model, result.Synced, len(result.FailedRecords), result.Duration)
			for _, bf := range result.FailedBatches {
				collector.IncrementBatchFailures(model, bf.Stage)
			}

			fmt.Printf("%s: synced %d/%d records in %s\n",
				model, result.Synced, result.Fetched, result.Duration.Round(timeRounding))
			if result.Incomplete {
				fmt.Printf("%s: deadline hit before the run finished, counts are partial\n", model)
			}
			if result.Edges > 0 {
				fmt.Printf("%s: wrote %d edge points\n", model, result.Edges)
			}
			for _, rf := range result.FailedRecords {
				fmt.Printf("%s: record %d failed: %s\n", model, rf.RecordID, rf.Reason)
			}
			for _, bf := range result.FailedBatches {
				fmt.Printf("%s: batch at offset %d failed in %s stage: %s\n",
					model, bf.Offset, bf.Stage, bf.Reason)
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "cap fetched records (0 syncs everything)")
	syncCmd.Flags().BoolVar(&syncWithEdges, "with-edges", false, "also write one graph-edge point per FK reference")
	syncCmd.Flags().StringVar(&syncDomain, "domain", "", "ERP domain filter as JSON, e.g. '[[\"state\",\"=\",\"posted\"]]'")
	rootCmd.AddCommand(syncCmd)
}
