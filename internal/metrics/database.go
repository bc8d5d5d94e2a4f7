package metrics

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var tableRe = regexp.MustCompile(`(?i)\b(?:from|into|update)\s+([a-z_][a-z0-9_]*)`)

// RecordDBQuery records database query metrics
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())

		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}

// UpdatePoolStats copies a pgxpool snapshot into the connection gauges.
func (m *Metrics) UpdatePoolStats(stat *pgxpool.Stat) {
	m.safeExecute("UpdatePoolStats", func() {
		if stat == nil {
			return
		}
		m.DBConnectionsOpen.Set(float64(stat.TotalConns()))
		m.DBConnectionsInUse.Set(float64(stat.AcquiredConns()))
		m.DBConnectionsIdle.Set(float64(stat.IdleConns()))
		m.DBConnectionsMax.Set(float64(stat.MaxConns()))
	})
}

// QueryLabels derives the (operation, table) label pair from a SQL statement.
// CTEs are labelled by their outermost verb.
func QueryLabels(sql string) (operation, table string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown", "unknown"
	}

	operation = strings.ToLower(fields[0])
	if operation == "with" {
		operation = "cte"
		for _, verb := range []string{"delete", "update", "insert", "select"} {
			if strings.Contains(strings.ToLower(sql), verb+" ") {
				operation = verb
				break
			}
		}
	}

	table = "unknown"
	if match := tableRe.FindStringSubmatch(sql); len(match) > 1 {
		table = strings.ToLower(match[1])
	}
	return operation, table
}

type queryStartKey struct{}

type queryStart struct {
	at        time.Time
	operation string
	table     string
	sql       string
}

// QueryTracer is a pgx.QueryTracer that records query durations and errors
// and logs statements slower than SlowThreshold.
type QueryTracer struct {
	Metrics       *Metrics
	Logger        *zerolog.Logger
	SlowThreshold time.Duration
}

var _ pgx.QueryTracer = (*QueryTracer)(nil)

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	operation, table := QueryLabels(data.SQL)
	return context.WithValue(ctx, queryStartKey{}, queryStart{
		at:        time.Now(),
		operation: operation,
		table:     table,
		sql:       data.SQL,
	})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := time.Since(start.at)
	t.Metrics.RecordDBQuery(start.operation, start.table, elapsed, data.Err)

	if t.SlowThreshold <= 0 || elapsed < t.SlowThreshold {
		return
	}

	t.Metrics.safeExecute("RecordSlowQuery", func() {
		t.Metrics.DBSlowQueries.WithLabelValues(start.operation, start.table).Inc()
	})

	if t.Logger != nil {
		t.Logger.Warn().
			Str("operation", start.operation).
			Str("table", start.table).
			Dur("duration", elapsed).
			Str("sql", start.sql).
			Msg("slow query")
	}
}
