package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/newsapi/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	uniqueKeyRe  = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	foreignKeyRe = regexp.MustCompile(`^[a-z]+_(.+)_fkey$`)
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Behavior:
//   - If err unwraps into *sqlerr.Error, return its Code.
//   - If err unwraps into *pgconn.PgError, map its SQLSTATE.
//   - Otherwise return sqlerr.Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode creates an application error code of the form <DOMAIN>_<ACTION>.
//
// Example:
//
//	comments + ForeignKeyViolation => COMMENT_REFERENCE_NOT_FOUND
//
// Codes only appear in logs; clients never see them.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "REFERENCE_NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	case InvalidTextRepresentation, NumericValueOutOfRange:
		action = "INVALID_VALUE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// describe produces a readable sentence about a database error for the log line.
func describe(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		column := sqlErr.ColumnName
		if column == "" {
			column = extractColumn(foreignKeyRe, sqlErr.ConstraintName)
		}
		return fmt.Sprintf("The referenced %s does not exist", getEntityName("", column))

	case UniqueViolation:
		entityName := getEntityName(sqlErr.TableName, "")
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			return fmt.Sprintf("A %s with this %s already exists", entityName, humanizeText(column))
		}
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case InvalidTextRepresentation, NumericValueOutOfRange:
		return "A value does not match its column type"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name ("article_id" -> "Article").
//  2. Otherwise a non-empty column is used as-is ("author" -> "Author").
//  3. Otherwise use table name, singularized if it ends with "s".
//  4. Otherwise fallback to "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case ("article_img_url" -> "Article Img Url").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// It supports two conventions:
//
//  1. "unique_<table>_<column>"      (unique_topics_slug -> "slug")
//  2. "<table>_<column>_(key|ukey)"  (topics_slug_key -> "slug")
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	return extractColumn(uniqueKeyRe, constraintName)
}

func extractColumn(re *regexp.Regexp, constraintName string) string {
	matches := re.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// Describe returns a log-friendly error code and sentence for a database error.
// Both are empty when err carries no Postgres error.
func Describe(err error) (code string, detail string) {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return "", ""
	}

	sqlErr := ConvertPgError(pgerr)
	return generateErrorCode(sqlErr.TableName, sqlErr.Code), describe(sqlErr)
}

// HandleError classifies any error returned by a repository operation into
// exactly one *errs.HTTPError.
//
// Output:
//   - *errs.HTTPError: returned unchanged (explicit domain outcome)
//   - invalid text representation / out of range / too long / not-null / unique / check: 400 "Bad request"
//   - foreign key violation: 404 "Resource not found"
//   - ErrNoRows: 404 "Resource not found"
//   - anything else: 500 "Internal Server Error"
func HandleError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		switch MapCode(pgerr.Code) {
		case InvalidTextRepresentation, NumericValueOutOfRange, StringDataRightTruncation,
			NotNullViolation, UniqueViolation, CheckViolation:
			return errs.NewBadRequestError(errs.MsgBadRequest)

		case ForeignKeyViolation:
			// The referenced author/topic/article does not exist.
			return errs.NewNotFoundError(errs.MsgResourceNotFound)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError(errs.MsgResourceNotFound)
	}

	return errs.NewInternalServerError()
}
