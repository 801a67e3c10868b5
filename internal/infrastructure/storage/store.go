// Package storage persists sources and content items through the remote SQL
// proxy. Statements are built with squirrel; because the proxy accepts only a
// raw sql string, arguments are inlined as quoted literals at the very edge,
// with standard single-quote doubling.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"mcpradar/internal/ports"
)

// Store executes built statements against the SQL proxy.
type Store struct {
	db     ports.SQLExecutor
	logger *slog.Logger
}

var (
	_ ports.SourceStore  = (*Store)(nil)
	_ ports.ContentStore = (*Store)(nil)
)

// New wires the proxy executor.
func New(db ports.SQLExecutor, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

type sqlizer interface {
	ToSql() (string, []any, error)
}

func (s *Store) exec(ctx context.Context, builder sqlizer) ([]map[string]any, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}

	statement, err := inline(query, args)
	if err != nil {
		return nil, fmt.Errorf("inline arguments: %w", err)
	}

	s.logger.Debug("execute sql", "statement", statement)
	return s.db.Execute(ctx, statement)
}

// inline substitutes each ? placeholder with its quoted literal. Squirrel
// never leaves a literal ? inside the query text itself, so a plain scan is
// sufficient.
func inline(query string, args []any) (string, error) {
	var out strings.Builder
	argIdx := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			out.WriteByte(query[i])
			continue
		}
		if argIdx >= len(args) {
			return "", fmt.Errorf("placeholder %d has no argument", argIdx+1)
		}
		out.WriteString(literal(args[argIdx]))
		argIdx++
	}
	if argIdx != len(args) {
		return "", fmt.Errorf("%d arguments left unbound", len(args)-argIdx)
	}
	return out.String(), nil
}

func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return pq.QuoteLiteral(t)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return pq.QuoteLiteral(t.UTC().Format(time.RFC3339))
	case []string:
		encoded, err := json.Marshal(t)
		if err != nil {
			return pq.QuoteLiteral("[]")
		}
		return pq.QuoteLiteral(string(encoded))
	default:
		return pq.QuoteLiteral(fmt.Sprint(t))
	}
}

// Row helpers: the proxy returns JSON, so numbers arrive as float64 and
// timestamps as strings.

func rowString(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func rowFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func rowBool(row map[string]any, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "t" || v == "true" || v == "TRUE" || v == "1"
	}
	return false
}

func rowTime(row map[string]any, key string) time.Time {
	s := rowString(row, key)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func rowStrings(row map[string]any, key string) []string {
	raw := rowString(row, key)
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}
