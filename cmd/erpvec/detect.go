package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/history"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/syncer"
)

var (
	detectMinConfidence float64
	detectSave          bool
)

var detectCmd = &cobra.Command{
	Use:   "detect-fk <model>",
	Short: "Detect likely FK fields of a model",
	Long: `Combines the declared relational fields with a naming-and-sampling
heuristic for integer fields that look like references. Candidates at
or above --min-confidence are printed; --save persists them to the FK
mapping file for later runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]

		extras := []fx.Option{erpModules()}
		if detectSave {
			extras = append(extras, historyModules())
		}

		var (
			s       *syncer.Syncer
			catalog *schema.Catalog
		)
		targets := []any{&s, &catalog}
		var store *history.MappingStore
		if detectSave {
			targets = append(targets, &store)
		}

		stop, err := withApp(cmd.Context(), targets, extras...)
		if err != nil {
			return err
		}
		defer stop()

		ctx := cmd.Context()
		if err := catalog.Initialize(ctx); err != nil {
			return err
		}

		candidates, err := s.DetectFKFields(ctx, model, detectMinConfidence)
		if err != nil {
			return err
		}

		if len(candidates) == 0 {
			fmt.Printf("%s: no FK candidates at confidence >= %.2f\n", model, detectMinConfidence)
			return nil
		}

		for _, c := range candidates {
			target := c.TargetModel
			if target == "" {
				target = "?"
			}
			fmt.Printf("%-30s -> %-25s %.2f %s\n", c.Field, target, c.Confidence, c.Classification)
			for _, r := range c.Reasons {
				fmt.Printf("    %s\n", r)
			}
		}

		if !detectSave {
			return nil
		}

		mapping, err := store.Load()
		if err != nil {
			return err
		}
		fields := make([]history.FieldMapping, 0, len(candidates))
		for _, c := range candidates {
			fields = append(fields, history.FieldMapping{
				Field:          c.Field,
				TargetModel:    c.TargetModel,
				Confidence:     c.Confidence,
				Classification: c.Classification,
			})
		}
		mapping.Models[model] = fields
		if err := store.Save(mapping); err != nil {
			return err
		}
		fmt.Printf("saved %d mappings for %s\n", len(fields), model)
		return nil
	},
}

func init() {
	detectCmd.Flags().Float64Var(&detectMinConfidence, "min-confidence", 0.5, "minimum confidence for a candidate")
	detectCmd.Flags().BoolVar(&detectSave, "save", false, "persist candidates to the FK mapping file")
	rootCmd.AddCommand(detectCmd)
}
