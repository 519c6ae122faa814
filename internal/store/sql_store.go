package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"trivia/internal/question"
)

// SQLStore keeps questions and categories in a relational database. The
// question.category column is TEXT, so category ids are always formatted
// with categoryKey before they are written or compared.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

var _ question.Store = (*SQLStore)(nil)

func New(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func categoryKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (question.Question, error) {
	var q question.Question
	var category string
	if err := row.Scan(&q.ID, &q.Question, &q.Answer, &category, &q.Difficulty); err != nil {
		return q, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(category), 10, 64)
	if err != nil {
		return q, fmt.Errorf("question %d has non-numeric category %q", q.ID, category)
	}
	q.Category = id
	return q, nil
}

func (s *SQLStore) queryQuestions(ctx context.Context, query string, args ...any) ([]question.Question, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	items := make([]question.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return items, nil
}

func (s *SQLStore) InsertQuestion(ctx context.Context, in question.NewQuestion) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`), in.Question, in.Answer, categoryKey(in.Category), in.Difficulty).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM questions WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question rows affected: %w", err)
	}
	if n == 0 {
		return question.ErrQuestionNotFound
	}
	return nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, question, answer, category, difficulty
		FROM questions
		WHERE id = $1
	`), id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, question.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return &q, nil
}

func (s *SQLStore) GetCategory(ctx context.Context, id int64) (*question.Category, error) {
	var c question.Category
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, type FROM categories WHERE id = $1
	`), id).Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, question.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context) ([]question.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT id, question, answer, category, difficulty
		FROM questions
		ORDER BY id ASC
	`)
}

func (s *SQLStore) ListCategories(ctx context.Context) ([]question.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	items := make([]question.Category, 0)
	for rows.Next() {
		var c question.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return items, nil
}

func (s *SQLStore) SearchQuestions(ctx context.Context, term string) ([]question.Question, error) {
	query := `
		SELECT id, question, answer, category, difficulty
		FROM questions
		WHERE ` + s.dialect.containsClause("question", "$1") + `
		ORDER BY id ASC
	`
	return s.queryQuestions(ctx, query, containsPattern(term))
}

func (s *SQLStore) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]question.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT id, question, answer, category, difficulty
		FROM questions
		WHERE category = $1
		ORDER BY id ASC
	`, categoryKey(categoryID))
}

// maxInlineExclude bounds the NOT IN list sent to SQLite. Longer exclusion
// lists are applied in Go so the statement stays under the variable limit.
const maxInlineExclude = 500

func (s *SQLStore) ListCandidateIDs(ctx context.Context, categoryID int64, exclude []int64) ([]int64, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if categoryID != 0 {
		args = append(args, categoryKey(categoryID))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	var skip map[int64]bool
	switch {
	case len(exclude) == 0:
	case s.dialect == Postgres:
		args = append(args, exclude)
		conds = append(conds, fmt.Sprintf("id <> ALL($%d)", len(args)))
	case len(exclude) <= maxInlineExclude:
		placeholders := make([]string, len(exclude))
		for i, id := range exclude {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, "id NOT IN ("+strings.Join(placeholders, ", ")+")")
	default:
		skip = make(map[int64]bool, len(exclude))
		for _, id := range exclude {
			skip[id] = true
		}
	}

	query := `SELECT id FROM questions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query candidate ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan candidate id: %w", err)
		}
		if skip[id] {
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate ids: %w", err)
	}
	return ids, nil
}

func (s *SQLStore) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// UpsertCategory writes a category with a caller chosen id. Only the seed
// importer creates categories.
func (s *SQLStore) UpsertCategory(ctx context.Context, c question.Category) error {
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO categories (id, type)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET type = excluded.type
	`), c.ID, c.Type)
	if err != nil {
		return fmt.Errorf("upsert category %d: %w", c.ID, err)
	}
	return nil
}
