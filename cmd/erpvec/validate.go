package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/graph"
	"github.com/erpvec/erpvec/v1/metrics"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/syncer"
)

var (
	validateModels       []string
	validateFix          bool
	validateBidirect     bool
	validatePatterns     bool
	validateTrackHistory bool
	validateAutoSync     bool
	validateOrphanLimit  int
	validateJSON         bool
)

var validateCmd = &cobra.Command{
	Use:   "validate-fk",
	Short: "Validate FK references between stored records",
	Long: `Scans every record point, decodes its FK pointer fields, and checks
that each referenced target point exists. Malformed pointers are
reported as structural errors; well-formed pointers with a missing
target are orphans.

--fix re-fetches orphan targets from the ERP and writes them back.
--auto-sync additionally re-syncs every model that had missing
references once validation finishes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runValidation(cmd, validationParams{
			models:       validateModels,
			repair:       validateFix,
			bidirect:     validateBidirect,
			patterns:     validatePatterns,
			trackHistory: validateTrackHistory,
			autoSync:     validateAutoSync,
			orphanLimit:  validateOrphanLimit,
		})
		if err != nil {
			return err
		}
		if validateJSON {
			return printJSON(report)
		}
		printReport(report)
		return nil
	},
}

var fixOrphansCmd = &cobra.Command{
	Use:   "fix-orphans [model]...",
	Short: "Repair orphaned FK references from the ERP",
	Long: `Shorthand for validate-fk --fix restricted to the given models.
Each orphan target is re-fetched from the ERP, embedded, and written
back; targets the ERP no longer has are reported as unrepairable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runValidation(cmd, validationParams{
			models:      args,
			repair:      true,
			orphanLimit: validateOrphanLimit,
		})
		if err != nil {
			return err
		}

		for _, m := range report.Models {
			if m.MissingRefs == 0 {
				continue
			}
			fmt.Printf("%s: %d missing references, %d repaired, %d unrepairable\n",
				m.ModelName, m.MissingRefs, m.Repaired, m.Unrepairable)
		}
		fmt.Printf("repaired %d of %d missing references\n", report.TotalRepaired, report.TotalMissing)
		return nil
	},
}

type validationParams struct {
	models       []string
	repair       bool
	bidirect     bool
	patterns     bool
	trackHistory bool
	autoSync     bool
	orphanLimit  int
}

func runValidation(cmd *cobra.Command, p validationParams) (*graph.Report, error) {
	extras := []fx.Option{storeCatalogModules(), graphModules()}
	if p.trackHistory {
		extras = append(extras, historyModules())
	}

	needERP := p.repair || p.autoSync
	var s *syncer.Syncer

	var (
		eng       *graph.Engine
		catalog   *schema.Catalog
		collector metrics.Collector
	)
	targets := []any{&eng, &catalog, &collector}
	if needERP {
		extras = append(extras, repairModules())
		targets = append(targets, &s)
	}

	stop, err := withApp(cmd.Context(), targets, extras...)
	if err != nil {
		return nil, err
	}
	defer stop()

	ctx := cmd.Context()
	if err := catalog.Initialize(ctx); err != nil {
		return nil, err
	}

	report, err := eng.Validate(ctx, graph.Options{
		Models:          p.models,
		Repair:          p.repair,
		Bidirectional:   p.bidirect,
		ExtractPatterns: p.patterns,
		OrphanLimit:     p.orphanLimit,
	})
	if err != nil {
		return nil, err
	}

	duration := report.FinishedAt.Sub(report.StartedAt)
	for _, m := range report.Models {
		collector.RecordValidation(m.ModelName, m.ScannedRecords, m.MissingRefs, duration)
	}

	if p.autoSync {
		for _, m := range report.Models {
			if m.MissingRefs == 0 {
				continue
			}
			fmt.Printf("%s: re-syncing after %d missing references\n", m.ModelName, m.MissingRefs)
			result, err := s.SyncModel(ctx, syncer.Options{Model: m.ModelName})
			if err != nil {
				return nil, fmt.Errorf("auto-sync %s: %w", m.ModelName, err)
			}
			fmt.Printf("%s: re-synced %d records\n", m.ModelName, result.Synced)
		}
	}

	return report, nil
}

func printReport(report *graph.Report) {
	for _, m := range report.Models {
		fmt.Printf("%s: %d records, %d references, %d missing\n",
			m.ModelName, m.ScannedRecords, m.References, m.MissingRefs)

		if m.Error != "" {
			fmt.Printf("  validation failed: %s\n", m.Error)
		}
		if len(m.StructuralErrors) > 0 {
			fmt.Printf("  %d structural errors (corrupt pointers, not repairable)\n", len(m.StructuralErrors))
		}
		if m.OrphanLimitHit {
			fmt.Printf("  orphan list capped at %d entries\n", len(m.Orphans))
		}
		if m.Repaired > 0 || m.Unrepairable > 0 {
			fmt.Printf("  repaired %d, unrepairable %d\n", m.Repaired, m.Unrepairable)
		}
		for _, d := range m.Drift {
			fmt.Printf("  drift %s: %s.%s -> %s\n", d.Kind, d.SourcePointID, d.Field, d.TargetPointID)
		}
		for _, h := range m.Hints {
			fmt.Printf("  pattern %s -> %s: %s (%d refs, %d targets)\n",
				h.Field, h.TargetModel, h.Cardinality, h.References, h.DistinctTargets)
		}
	}

	fmt.Printf("total: %d records scanned, %d references, %d missing",
		report.TotalScanned, report.TotalReferences, report.TotalMissing)
	if report.TotalRepaired > 0 {
		fmt.Printf(", %d repaired", report.TotalRepaired)
	}
	fmt.Println()
	if report.Incomplete {
		fmt.Println("deadline hit before every model finished, totals are partial")
	}
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateModels, "model", nil, "restrict validation to these models")
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "repair orphans by re-fetching targets from the ERP")
	validateCmd.Flags().BoolVar(&validateBidirect, "bidirectional", false, "also reconcile references against stored edge points")
	validateCmd.Flags().BoolVar(&validatePatterns, "extract-patterns", false, "derive cardinality hints from observed references")
	validateCmd.Flags().BoolVar(&validateTrackHistory, "track-history", false, "append the report to the validation history file")
	validateCmd.Flags().BoolVar(&validateAutoSync, "auto-sync", false, "re-sync models that had missing references")
	validateCmd.Flags().IntVar(&validateOrphanLimit, "orphan-limit", 0, "cap reported orphans per model (0 uses the default)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the full report as JSON")

	fixOrphansCmd.Flags().IntVar(&validateOrphanLimit, "orphan-limit", 0, "cap reported orphans per model (0 uses the default)")

	rootCmd.AddCommand(validateCmd, fixOrphansCmd)
}
