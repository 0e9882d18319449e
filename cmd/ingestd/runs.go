package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hiredeck/ingest/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Long:  "Prints a table of recent runs with their job counts and outcomes.",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), runsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-18s %-9s %8s %8s %7s\n", "Started", "Status", "Scraped", "Added", "Errors")
	fmt.Println(strings.Repeat("─", 55))

	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Printf("%-18s %-9s %8d %8d %7d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), status, r.JobsScraped, r.JobsAdded, len(r.Errors))
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}
