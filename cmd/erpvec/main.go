package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	flagCollection string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "erpvec",
	Short: "Project ERP records into a vector store and query them",
	Long: `erpvec syncs ERP models into a Qdrant collection as embedded points,
runs filtered aggregation and scroll queries over them, and validates
the foreign-key graph between the stored records.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCollection, "collection", "", "target collection (default from QDRANT_COLLECTION)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
