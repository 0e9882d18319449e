package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hiredeck/ingest/internal/store"
)

var orgsLimit int

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List stored organizations",
	Long:  "Prints a table of organizations the matching engine has created, with their job counts.",
	RunE:  runOrgs,
}

func init() {
	orgsCmd.Flags().IntVar(&orgsLimit, "limit", 50, "maximum number of organizations to show")
	rootCmd.AddCommand(orgsCmd)
}

func runOrgs(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	orgs, err := st.ListOrgs(ctx, orgsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list organizations: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-35s %-20s %6s %s\n", "Organization", "Industry", "Jobs", "Known")
	fmt.Println(strings.Repeat("─", 70))

	for _, org := range orgs {
		count, err := st.CountJobsForOrg(ctx, org.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to count jobs for %s: %v\n", org.Name, err)
			os.Exit(1)
		}
		known := ""
		if org.WellKnown {
			known = "yes"
		}
		fmt.Printf("%-35s %-20s %6d %s\n", truncateCol(org.Name, 35), truncateCol(org.Industry, 20), count, known)
	}

	fmt.Printf("\nTotal: %d organizations\n", len(orgs))
	return nil
}

func truncateCol(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
