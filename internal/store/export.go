package store

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes every category and question into a workbook laid out
// the way ParseExcelSeed reads it, so an export can be seeded back.
func (s *SQLStore) ExportExcel(ctx context.Context) ([]byte, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), "categories"); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet("questions"); err != nil {
		return nil, fmt.Errorf("create questions sheet: %w", err)
	}

	if err := writeRow(f, "categories", 1, []any{"id", "type"}); err != nil {
		return nil, err
	}
	for i, c := range categories {
		if err := writeRow(f, "categories", i+2, []any{c.ID, c.Type}); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, "questions", 1, []any{"id", "question", "answer", "category", "difficulty"}); err != nil {
		return nil, err
	}
	for i, q := range questions {
		if err := writeRow(f, "questions", i+2, []any{q.ID, q.Question, q.Answer, q.Category, q.Difficulty}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
