package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"modelforge/internal/gen"
	"modelforge/internal/logger"
)

// SQLSTATE codes of objects that already exist; re-applying a schema skips
// them.
var duplicateCodes = map[string]string{
	"42710": "duplicate_object",
	"42P07": "duplicate_table",
	"42701": "duplicate_column",
	"42P06": "duplicate_schema",
	"42723": "duplicate_function",
}

type Result struct {
	Kind    gen.Kind `json:"kind"`
	Table   string   `json:"table,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

type Report struct {
	Applied int      `json:"applied"`
	Skipped int      `json:"skipped"`
	Results []Result `json:"results"`
}

// Execer is the part of *sql.DB that Apply needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply runs the statements in order, one at a time. Statements creating
// something that already exists are skipped; any other error stops the run
// and is returned together with the partial report.
func Apply(ctx context.Context, db Execer, stmts []gen.Statement, log *logger.Logger) (Report, error) {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	rep := Report{Results: []Result{}}
	for i, st := range stmts {
		text := strings.TrimSpace(st.SQL)
		if text == "" {
			continue
		}
		res := Result{Kind: st.Kind, Table: st.Table}
		if _, err := db.ExecContext(ctx, text); err != nil {
			reason, dup := duplicate(err)
			if !dup {
				return rep, fmt.Errorf("apply statement %d (%s %s): %w", i+1, st.Kind, st.Table, err)
			}
			log.Info("ddl skipped, already exists", "kind", st.Kind, "table", st.Table, "reason", reason)
			res.Skipped, res.Reason = true, reason
			rep.Skipped++
		} else {
			rep.Applied++
		}
		rep.Results = append(rep.Results, res)
	}
	log.Info("ddl applied", "applied", rep.Applied, "skipped", rep.Skipped)
	return rep, nil
}

func duplicate(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if name, ok := duplicateCodes[pgErr.Code]; ok {
			return name, true
		}
		return "", false
	}
	e := strings.ToLower(err.Error())
	if strings.Contains(e, "already exists") {
		return "already_exists", true
	}
	return "", false
}
