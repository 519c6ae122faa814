package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"trivia/internal/store"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories and questions from a .json or .xlsx file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("file", "", "Seed file (.json or .xlsx)")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	ctx := cmd.Context()

	path, _ := cmd.Flags().GetString("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	conn, sqlStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	var report *store.ImportReport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		report, err = sqlStore.ImportExcel(ctx, f)
	case ".json":
		report, err = sqlStore.ImportJSON(ctx, f)
	default:
		return fmt.Errorf("unsupported seed file type %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if rdb := openRedis(ctx, cfg); rdb != nil {
		defer rdb.Close()
		if err := store.InvalidateCategories(ctx, rdb); err != nil {
			log.Printf("%v", err)
		}
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if report.FailedRows > 0 {
		return fmt.Errorf("%d of %d question rows failed", report.FailedRows, report.TotalRows)
	}
	return nil
}
