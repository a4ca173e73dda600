package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcortez/admetrics/internal/config"
	"github.com/mcortez/admetrics/internal/ingest"
	"github.com/mcortez/admetrics/internal/store"
)

var (
	importUser string
	importDir  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the datasource CSVs for a user, replacing existing data",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "Owning user ID (required)")
	importCmd.Flags().StringVarP(&importDir, "dir", "d", "", "Datasource directory (default from env)")
	importCmd.MarkFlagRequired("user")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if importDir == "" {
		importDir = cfg.DatasourceDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	imp := ingest.NewImporter(st, nil, nil, logger)
	counts, err := imp.ImportDatasource(context.Background(), importUser, importDir)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d campaign records and %d business records for %s\n",
		counts.Campaigns, counts.Business, importUser)
	return nil
}
