package store

import (
	"fmt"
	"regexp"
	"strings"

	"trivia/internal/db"
)

type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

var placeholderRE = regexp.MustCompile(`\$(\d+)`)

func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pgx", "":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unsupported dialect %q", driver)
	}
}

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// rebind rewrites $N placeholders into the numbered form SQLite understands.
func (d Dialect) rebind(query string) string {
	if d != SQLite {
		return query
	}
	return placeholderRE.ReplaceAllString(query, "?$1")
}

// containsClause matches column against a LIKE pattern ignoring case.
func (d Dialect) containsClause(column, placeholder string) string {
	if d == SQLite {
		return fmt.Sprintf(`%[1]s(%[2]s) LIKE %[1]s(%[3]s) ESCAPE '\'`, db.SQLiteLowerFunc, column, placeholder)
	}
	return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, placeholder)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
