package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erpvec/erpvec/v1/filter"
	"github.com/erpvec/erpvec/v1/query"
	"github.com/erpvec/erpvec/v1/schema"
)

var (
	queryWhere      string
	queryAggs       []string
	queryGroupBy    []string
	queryMaxRecords int
	queryLimit      int
	queryCursor     string
)

var queryCmd = &cobra.Command{
	Use:   "query <model>",
	Short: "Run filtered aggregations or scroll records",
	Long: `Compiles the given conditions against the model schema, pushes what the
store can evaluate natively, and applies the rest in-memory.

With --agg the matched records are folded into aggregates; without it
one page of matching records is printed as JSON.`,
	Example: `  erpvec query account.move.line \
      --where '[{"field":"date","op":"gte","value":"2025-01-01"}]' \
      --agg sum:balance --agg count --group-by partner_id`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]

		var conditions []filter.Condition
		if queryWhere != "" {
			if err := json.Unmarshal([]byte(queryWhere), &conditions); err != nil {
				return fmt.Errorf("parse --where: %w", err)
			}
		}

		aggregations, err := parseAggregations(queryAggs)
		if err != nil {
			return err
		}

		var (
			eng     *query.Engine
			catalog *schema.Catalog
		)
		stop, err := withApp(cmd.Context(), []any{&eng, &catalog}, storeCatalogModules(), queryModules())
		if err != nil {
			return err
		}
		defer stop()

		ctx := cmd.Context()
		if err := catalog.Initialize(ctx); err != nil {
			return err
		}

		compiled, err := filter.Compile(catalog, model, conditions)
		if err != nil {
			return err
		}

		if len(aggregations) > 0 {
			result, err := eng.Aggregate(ctx, query.AggregateRequest{
				Filter:       compiled.Native,
				Residual:     compiled.Residual,
				Aggregations: aggregations,
				GroupBy:      queryGroupBy,
				MaxRecords:   queryMaxRecords,
			})
			if err != nil {
				return err
			}
			if result.Truncated {
				fmt.Fprintln(os.Stderr, "warning: scan truncated, aggregates cover a subset of matches")
			}
			return printJSON(result)
		}

		page, err := eng.Scroll(ctx, query.ScrollRequest{
			Filter:   compiled.Native,
			Residual: compiled.Residual,
			Limit:    queryLimit,
			Cursor:   queryCursor,
		})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

// parseAggregations turns "op:field[:alias]" specs into requests. A bare
// "count" needs no field.
func parseAggregations(specs []string) ([]query.Aggregation, error) {
	var out []query.Aggregation
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)

		agg := query.Aggregation{Op: query.AggOp(parts[0])}
		if len(parts) > 1 {
			agg.Field = parts[1]
		}
		if len(parts) > 2 {
			agg.Alias = parts[2]
		} else if agg.Field != "" {
			agg.Alias = fmt.Sprintf("%s_%s", agg.Op, agg.Field)
		} else {
			agg.Alias = string(agg.Op)
		}

		if agg.Op != query.AggCount && agg.Field == "" {
			return nil, fmt.Errorf("aggregation %q needs a field, e.g. %s:balance", spec, agg.Op)
		}
		out = append(out, agg)
	}
	return out, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	queryCmd.Flags().StringVar(&queryWhere, "where", "", "conditions as JSON: [{\"field\":...,\"op\":...,\"value\":...}]")
	queryCmd.Flags().StringArrayVar(&queryAggs, "agg", nil, "aggregation as op:field[:alias]; repeatable")
	queryCmd.Flags().StringSliceVar(&queryGroupBy, "group-by", nil, "payload fields to group aggregates by")
	queryCmd.Flags().IntVar(&queryMaxRecords, "max-records", 0, "cap records folded into aggregates (0 uses the default)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 20, "page size when scrolling records")
	queryCmd.Flags().StringVar(&queryCursor, "cursor", "", "continuation cursor from a previous page")
	rootCmd.AddCommand(queryCmd)
}
