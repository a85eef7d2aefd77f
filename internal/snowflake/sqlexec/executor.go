// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/sethvargo/go-retry"
	"k8s.io/utils/ptr"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

var ErrSQLExecution = errors.New("SQL execution failed")

// Statement is a single SQL statement kept as lines, plus the positional
// bindings for its placeholders.
type Statement struct {
	Lines    []string
	Bindings []any
	// Database, when set, becomes the session database before the statement runs.
	Database string
}

func (s Statement) SQL() string {
	return strings.Join(s.Lines, "\n")
}

type Executor interface {
	Execute(ctx context.Context, st Statement) error
	Exists(ctx context.Context, st Statement) (bool, error)
}

// Querier returns result sets as rows keyed by lowercase column name. NULL
// columns are left out of their row.
type Querier interface {
	Query(ctx context.Context, st Statement) ([]map[string]string, error)
}

// ExecutionError wraps any driver failure, whether or not the statement
// reached the server.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSQLExecution, e.Err)
}

func (e *ExecutionError) Unwrap() []error {
	return []error{ErrSQLExecution, e.Err}
}

var _ Executor = &ConnExecutor{}
var _ Querier = &ConnExecutor{}

type ConnExecutor struct {
	db        *sql.DB
	sessionID *string
	backoff   func() retry.Backoff
}

type Option func(*ConnExecutor)

func WithSessionID(id *string) Option {
	return func(e *ConnExecutor) { e.sessionID = id }
}

// WithConnectBackoff overrides the backoff used while acquiring a connection.
func WithConnectBackoff(b func() retry.Backoff) Option {
	return func(e *ConnExecutor) { e.backoff = b }
}

func New(db *sql.DB, opts ...Option) *ConnExecutor {
	e := &ConnExecutor{
		db: db,
		backoff: func() retry.Backoff {
			return retry.WithMaxDuration(time.Minute, retry.NewExponential(time.Second))
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs st on a connection that is released before returning.
func (e *ConnExecutor) Execute(ctx context.Context, st Statement) error {
	ctx, conn, err := e.GetConnection(ctx)
	if err != nil {
		return &ExecutionError{SQL: st.SQL(), Err: err}
	}
	defer conn.Close()

	if err := SetSqlContext(ctx, conn, st.Database); err != nil {
		return &ExecutionError{SQL: st.SQL(), Err: err}
	}

	tflog.Debug(ctx, "executing statement", map[string]any{
		"sql":      st.SQL(),
		"bindings": len(st.Bindings),
	})
	if _, err := conn.ExecContext(ctx, st.SQL(), st.Bindings...); err != nil {
		return &ExecutionError{SQL: st.SQL(), Err: err}
	}
	return nil
}

// Exists runs st as a query and reports whether it returned any row.
func (e *ConnExecutor) Exists(ctx context.Context, st Statement) (bool, error) {
	ctx, conn, err := e.GetConnection(ctx)
	if err != nil {
		return false, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	defer conn.Close()

	if err := SetSqlContext(ctx, conn, st.Database); err != nil {
		return false, &ExecutionError{SQL: st.SQL(), Err: err}
	}

	tflog.Debug(ctx, "executing query", map[string]any{"sql": st.SQL()})
	rows, err := conn.QueryContext(ctx, st.SQL(), st.Bindings...)
	if err != nil {
		return false, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	return found, nil
}

func (e *ConnExecutor) Query(ctx context.Context, st Statement) ([]map[string]string, error) {
	ctx, conn, err := e.GetConnection(ctx)
	if err != nil {
		return nil, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	defer conn.Close()

	if err := SetSqlContext(ctx, conn, st.Database); err != nil {
		return nil, &ExecutionError{SQL: st.SQL(), Err: err}
	}

	tflog.Debug(ctx, "executing query", map[string]any{"sql": st.SQL()})
	rows, err := conn.QueryContext(ctx, st.SQL(), st.Bindings...)
	if err != nil {
		return nil, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	var result []map[string]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &ExecutionError{SQL: st.SQL(), Err: err}
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				row[strings.ToLower(col)] = values[i].String
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{SQL: st.SQL(), Err: err}
	}
	return result, nil
}

// GetConnection acquires a dedicated connection and pings it. Only acquisition
// is retried; statements never are.
func (e *ConnExecutor) GetConnection(ctx context.Context) (context.Context, *sql.Conn, error) {
	ctx = tflog.SetField(ctx, "session-id", ptr.Deref(e.sessionID, ""))

	var conn *sql.Conn
	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		c, err := e.db.Conn(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := c.PingContext(ctx); err != nil {
			c.Close()
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to establish connection: %w", err)
	}
	return ctx, conn, nil
}

func SetSqlContext(ctx context.Context, conn *sql.Conn, dbName string) error {
	if dbName == "" {
		return nil
	}
	if _, err := util.ValidateIdentifier(dbName); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`USE DATABASE %s`, dbName)); err != nil {
		return fmt.Errorf("failed to set database: %w", err)
	}
	return nil
}
