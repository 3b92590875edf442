package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/career-rpg/internal/storage"
)

func newUsageCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Summarize recorded dialog usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := store.Summary(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "TOTAL\tPROVIDER\tCACHED\tFALLBACK\tFAILED\n")
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", sum.Total, sum.ProviderCalls, sum.CacheHits, sum.Fallbacks, sum.Failures)
			fmt.Fprintln(w)

			classes := make([]string, 0, len(sum.ByClass))
			for class := range sum.ByClass {
				classes = append(classes, class)
			}
			sort.Strings(classes)

			fmt.Fprintln(w, "NPC CLASS\tREQUESTS")
			for _, class := range classes {
				fmt.Fprintf(w, "%s\t%d\n", class, sum.ByClass[class])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "usage.db", "usage database path")
	return cmd
}
