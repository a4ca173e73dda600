package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcortez/admetrics/internal/config"
	"github.com/mcortez/admetrics/internal/export"
	"github.com/mcortez/admetrics/internal/store"
)

var (
	exportUser string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's records as CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportUser, "user", "u", "", "Owning user ID (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	exportCmd.MarkFlagRequired("user")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	csv, err := export.CSV(context.Background(), st, exportUser)
	if err != nil {
		return err
	}
	if exportOut == "" {
		fmt.Print(csv)
		return nil
	}
	return os.WriteFile(exportOut, []byte(csv), 0o644)
}
