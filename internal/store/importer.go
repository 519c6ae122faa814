package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trivia/internal/question"

	"github.com/xuri/excelize/v2"
)

type SeedQuestion struct {
	Row        int    `json:"-"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

type SeedData struct {
	Categories []question.Category `json:"categories"`
	Questions  []SeedQuestion      `json:"questions"`
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportReport struct {
	Categories  int              `json:"categories"`
	TotalRows   int              `json:"total_rows"`
	SuccessRows int              `json:"success_rows"`
	FailedRows  int              `json:"failed_rows"`
	Errors      []ImportRowError `json:"errors"`
}

func (r *ImportReport) fail(row int, msg string) {
	r.FailedRows++
	r.Errors = append(r.Errors, ImportRowError{Row: row, Error: msg})
}

func ParseJSONSeed(r io.Reader) (SeedData, error) {
	var data SeedData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return SeedData{}, fmt.Errorf("decode seed json: %w", err)
	}
	for i := range data.Questions {
		data.Questions[i].Row = i + 1
	}
	return data, nil
}

// ParseExcelSeed reads a workbook with a "categories" sheet (id, type) and a
// "questions" sheet (question, answer, category, difficulty). Rows that
// cannot be parsed are returned as row errors instead of failing the file.
func ParseExcelSeed(r io.Reader) (SeedData, []ImportRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return SeedData{}, nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	var data SeedData
	rowErrs := make([]ImportRowError, 0)

	catRows, err := f.GetRows("categories")
	if err != nil {
		return SeedData{}, nil, fmt.Errorf("read categories sheet: %w", err)
	}
	if len(catRows) > 0 {
		get, err := headerIndex(catRows[0], "id", "type")
		if err != nil {
			return SeedData{}, nil, fmt.Errorf("categories sheet: %w", err)
		}
		for i := 1; i < len(catRows); i++ {
			row := catRows[i]
			if blankRow(row) {
				continue
			}
			id, err := strconv.ParseInt(get(row, "id"), 10, 64)
			if err != nil || id <= 0 {
				return SeedData{}, nil, fmt.Errorf("categories sheet row %d: invalid id", i+1)
			}
			data.Categories = append(data.Categories, question.Category{ID: id, Type: get(row, "type")})
		}
	}

	qRows, err := f.GetRows("questions")
	if err != nil {
		return SeedData{}, nil, fmt.Errorf("read questions sheet: %w", err)
	}
	if len(qRows) < 2 {
		return data, rowErrs, nil
	}
	get, err := headerIndex(qRows[0], "question", "answer", "category", "difficulty")
	if err != nil {
		return SeedData{}, nil, fmt.Errorf("questions sheet: %w", err)
	}
	for i := 1; i < len(qRows); i++ {
		rowNo := i + 1
		row := qRows[i]
		if blankRow(row) {
			continue
		}
		category, err := strconv.ParseInt(get(row, "category"), 10, 64)
		if err != nil {
			rowErrs = append(rowErrs, ImportRowError{Row: rowNo, Error: "category must be an integer"})
			continue
		}
		difficulty, err := strconv.Atoi(get(row, "difficulty"))
		if err != nil {
			rowErrs = append(rowErrs, ImportRowError{Row: rowNo, Error: "difficulty must be an integer"})
			continue
		}
		data.Questions = append(data.Questions, SeedQuestion{
			Row:        rowNo,
			Question:   get(row, "question"),
			Answer:     get(row, "answer"),
			Category:   category,
			Difficulty: difficulty,
		})
	}
	return data, rowErrs, nil
}

func headerIndex(header []string, required ...string) (func(row []string, key string) string, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	return func(row []string, key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Import writes categories first, then each question on its own. A bad
// question row is reported and skipped; the rest of the file still loads.
func (s *SQLStore) Import(ctx context.Context, data SeedData) (*ImportReport, error) {
	report := &ImportReport{Errors: make([]ImportRowError, 0)}

	for _, c := range data.Categories {
		c.Type = strings.TrimSpace(c.Type)
		if c.ID <= 0 || c.Type == "" {
			return nil, fmt.Errorf("category %d: id and type are required", c.ID)
		}
		if err := s.UpsertCategory(ctx, c); err != nil {
			return nil, err
		}
		report.Categories++
	}

	for _, q := range data.Questions {
		report.TotalRows++
		text := strings.TrimSpace(q.Question)
		answer := strings.TrimSpace(q.Answer)
		if text == "" || answer == "" {
			report.fail(q.Row, "question and answer are required")
			continue
		}
		if q.Difficulty <= 0 {
			report.fail(q.Row, "difficulty must be positive")
			continue
		}
		if _, err := s.GetCategory(ctx, q.Category); err != nil {
			if errors.Is(err, question.ErrCategoryNotFound) {
				report.fail(q.Row, fmt.Sprintf("unknown category %d", q.Category))
				continue
			}
			return nil, err
		}
		if _, err := s.InsertQuestion(ctx, question.NewQuestion{
			Question:   text,
			Answer:     answer,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		}); err != nil {
			report.fail(q.Row, err.Error())
			continue
		}
		report.SuccessRows++
	}
	return report, nil
}

func (s *SQLStore) ImportJSON(ctx context.Context, r io.Reader) (*ImportReport, error) {
	data, err := ParseJSONSeed(r)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, data)
}

func (s *SQLStore) ImportExcel(ctx context.Context, r io.Reader) (*ImportReport, error) {
	data, rowErrs, err := ParseExcelSeed(r)
	if err != nil {
		return nil, err
	}
	report, err := s.Import(ctx, data)
	if err != nil {
		return nil, err
	}
	for _, re := range rowErrs {
		report.TotalRows++
		report.fail(re.Row, re.Error)
	}
	return report, nil
}
