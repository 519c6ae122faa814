package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all categories and questions to an .xlsx workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("file", "questions.xlsx", "Output workbook")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("file")

	conn, sqlStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	raw, err := sqlStore.ExportExcel(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
	return nil
}
