package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcortez/admetrics/internal/config"
	"github.com/mcortez/admetrics/internal/store"
)

var clearUser string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all records belonging to a user",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().StringVarP(&clearUser, "user", "u", "", "Owning user ID (required)")
	clearCmd.MarkFlagRequired("user")
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	nc, nb, err := st.Clear(context.Background(), clearUser)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d campaign records and %d business records for %s\n", nc, nb, clearUser)
	return nil
}
