// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the pgx driver and converts them into
// the API's error taxonomy (see HandleError).
package sqlerr

import "fmt"

// Code is the normalized category of a database error.
type Code string

const (
	Other                     Code = "other"
	InvalidTextRepresentation Code = "invalid_text_representation"
	NumericValueOutOfRange    Code = "numeric_value_out_of_range"
	StringDataRightTruncation Code = "string_data_right_truncation"
	ForeignKeyViolation       Code = "foreign_key_violation"
	UniqueViolation           Code = "unique_violation"
	NotNullViolation          Code = "not_null_violation"
	CheckViolation            Code = "check_violation"
)

// Severity mirrors the severity field Postgres attaches to every error.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// sqlStates maps the SQLSTATE values the API distinguishes.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
var sqlStates = map[string]Code{
	"22P02": InvalidTextRepresentation,
	"22003": NumericValueOutOfRange,
	"22001": StringDataRightTruncation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23502": NotNullViolation,
	"23514": CheckViolation,
}

// MapCode converts a raw SQLSTATE into a Code. Unknown states map to Other.
func MapCode(sqlState string) Code {
	if code, ok := sqlStates[sqlState]; ok {
		return code
	}
	return Other
}

// MapSeverity converts the Postgres severity string into a Severity.
// Unknown values are treated as plain errors.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a normalized database error.
//
// It keeps the Postgres metadata that is useful in logs (table, column,
// constraint) while the client only ever sees the mapped HTTP message.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

// Unwrap exposes the original driver error to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.driverErr
}
