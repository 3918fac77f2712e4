package sqlengine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gym-agent-be/pkg/agent"
	"gym-agent-be/pkg/database"
)

const Name = "sql_engine"

var (
	ErrWriteNotAllowed = errors.New("only read-only queries are allowed")
	ErrEmptyQuery      = errors.New("query is empty")
)

var (
	leadingKeyword  = regexp.MustCompile(`^[A-Za-z]+`)
	explainPrefix   = regexp.MustCompile(`(?i)^EXPLAIN(\s+QUERY\s+PLAN)?\s+`)
	pragmaTableInfo = regexp.MustCompile(`(?i)^PRAGMA\s+table_info\s*\(`)
	// a WITH clause may front a write, and EXPLAIN accepts any statement
	writeClause = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE)\b|\bREPLACE\s+INTO\b`)
)

var readOnlyKeywords = map[string]bool{
	"SELECT": true,
	"WITH":   true,
}

// Tool runs read-only SQL against the gym class database. Every call opens its
// own query_only connection so a statement can never write, whatever its text.
type Tool struct {
	dbPath string
}

func New(dbPath string) *Tool {
	return &Tool{dbPath: dbPath}
}

func (t *Tool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name: Name,
		Description: `Runs a read-only SQL query (SQLite dialect) against the gym_classes table and returns the rows as a JSON array.
The table has these columns:
  - class_id: INTEGER
  - instructor_name: VARCHAR(32)
  - class_name: VARCHAR(32)
  - start_time: VARCHAR(5), "HH:MM" 24 hour clock
  - duration_mins: INTEGER
Only SELECT statements are accepted.`,
		InputSchema: agent.QuerySchema("A valid SQLite SELECT statement."),
	}
}

func (t *Tool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	query, err := agent.StringArg(args, "query")
	if err != nil {
		return "", err
	}
	return t.Execute(ctx, query)
}

// Execute runs query and serialises every row as a column -> value object.
func (t *Tool) Execute(ctx context.Context, query string) (string, error) {
	statement, err := CheckReadOnly(query)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(t.dbPath); err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}

	driver, err := database.SQLiteDriver()
	if err != nil {
		return "", err
	}
	db, err := sql.Open(driver, database.SQLiteDSN(t.dbPath, "query_only(1)", "busy_timeout(5000)"))
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, statement)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	results, err := materialize(rows)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func materialize(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// CheckReadOnly accepts a single SELECT or WITH query, optionally under
// EXPLAIN [QUERY PLAN], or a PRAGMA table_info lookup. It returns the statement
// without the trailing semicolon.
func CheckReadOnly(query string) (string, error) {
	q := strings.TrimSpace(query)
	for strings.HasSuffix(q, ";") {
		q = strings.TrimSpace(strings.TrimSuffix(q, ";"))
	}
	if q == "" {
		return "", ErrEmptyQuery
	}

	bare := stripQuoted(q)
	if strings.Contains(bare, ";") {
		return "", fmt.Errorf("%w: multiple statements", ErrWriteNotAllowed)
	}
	if pragmaTableInfo.MatchString(q) {
		return q, nil
	}

	body := explainPrefix.ReplaceAllString(bare, "")
	keyword := strings.ToUpper(leadingKeyword.FindString(body))
	if !readOnlyKeywords[keyword] {
		if keyword == "" {
			keyword = "unrecognised"
		}
		return "", fmt.Errorf("%w: %s statements are rejected", ErrWriteNotAllowed, keyword)
	}
	if m := writeClause.FindString(body); m != "" {
		return "", fmt.Errorf("%w: %s clause", ErrWriteNotAllowed, strings.ToUpper(strings.Fields(m)[0]))
	}
	return q, nil
}

// stripQuoted blanks out string literals and quoted identifiers.
func stripQuoted(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	var quote rune
	for _, r := range q {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			b.WriteByte(' ')
		case r == '\'' || r == '"' || r == '`':
			quote = r
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
