package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiredeck/ingest/internal/audit"
	"github.com/hiredeck/ingest/internal/store"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Review runs and organizations interactively (TUI)",
	Long:  "Opens a split-pane view of recent runs and stored organizations.",
	RunE:  runAuditCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
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

	return audit.Run(context.Background(), st)
}
