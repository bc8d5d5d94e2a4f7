package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/deppfellow/newsapi/internal/errs"
)

const (
	defaultSortBy = "created_at"
	defaultOrder  = "desc"
	defaultLimit  = 10
)

// sortColumns is the allow-list for sort_by. Column names can't be bound as
// parameters, so only these exact strings ever reach the ORDER BY clause.
var sortColumns = map[string]string{
	"article_id":      "articles.article_id",
	"title":           "articles.title",
	"topic":           "articles.topic",
	"author":          "articles.author",
	"body":            "articles.body",
	"created_at":      "articles.created_at",
	"votes":           "articles.votes",
	"article_img_url": "articles.article_img_url",
}

var sortOrders = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

// ListArticlesOptions carries the raw listing query parameters. Empty strings
// mean "not supplied".
type ListArticlesOptions struct {
	SortBy string
	Order  string
	Topic  string
	Limit  string
	Page   string

	// DefaultLimit applies when Limit is empty. Zero means 10.
	DefaultLimit int
}

// ArticleQuery is a validated listing: the page statement and the
// page-independent count statement.
type ArticleQuery struct {
	ListSQL   string
	ListArgs  []any
	CountSQL  string
	CountArgs []any

	SortBy string
	Order  string
	Topic  string
	Limit  int
	Offset int
}

// BuildArticleQuery validates opts and composes the listing SQL. It does no
// I/O; checking that Topic exists is the caller's job.
func BuildArticleQuery(opts ListArticlesOptions) (*ArticleQuery, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, errs.NewBadRequestError(errs.MsgBadRequest)
	}

	order := opts.Order
	if order == "" {
		order = defaultOrder
	}
	direction, ok := sortOrders[order]
	if !ok {
		return nil, errs.NewBadRequestError(errs.MsgBadRequest)
	}

	limit, offset, err := ParsePagination(opts.Limit, opts.Page, opts.DefaultLimit)
	if err != nil {
		return nil, err
	}

	var where string
	var filterArgs []any
	if opts.Topic != "" {
		where = "WHERE articles.topic = $1"
		filterArgs = append(filterArgs, opts.Topic)
	}

	orderBy := fmt.Sprintf("%s %s", column, direction)
	if sortBy != "article_id" {
		orderBy += ", articles.article_id ASC"
	}

	next := len(filterArgs) + 1
	var list strings.Builder
	list.WriteString(`SELECT articles.article_id, articles.title, articles.topic, articles.author, `)
	list.WriteString(`articles.created_at, articles.votes, articles.article_img_url, `)
	list.WriteString(`COUNT(comments.comment_id) AS comment_count `)
	list.WriteString(`FROM articles LEFT JOIN comments ON comments.article_id = articles.article_id `)
	if where != "" {
		list.WriteString(where + " ")
	}
	list.WriteString(`GROUP BY articles.article_id `)
	fmt.Fprintf(&list, "ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, next, next+1)

	count := `SELECT COUNT(*) FROM articles`
	if where != "" {
		count += " " + where
	}

	listArgs := make([]any, 0, len(filterArgs)+2)
	listArgs = append(listArgs, filterArgs...)
	listArgs = append(listArgs, limit, offset)

	return &ArticleQuery{
		ListSQL:   list.String(),
		ListArgs:  listArgs,
		CountSQL:  count,
		CountArgs: filterArgs,
		SortBy:    sortBy,
		Order:     order,
		Topic:     opts.Topic,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// ParsePagination validates a raw limit and 1-indexed page and returns the
// limit and row offset. fallback applies when rawLimit is empty.
func ParsePagination(rawLimit, rawPage string, fallback int) (limit, offset int, err error) {
	limit = fallback
	if limit <= 0 {
		limit = defaultLimit
	}
	if rawLimit != "" {
		if limit, err = parsePositive(rawLimit); err != nil {
			return 0, 0, err
		}
	}
	if rawPage != "" {
		page, err := parsePositive(rawPage)
		if err != nil {
			return 0, 0, err
		}
		offset = pageOffset(page, limit)
	}
	return limit, offset, nil
}

// pageOffset saturates instead of overflowing; a page that far out is simply
// empty.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// parsePositive accepts plain decimal digits, without a sign.
func parsePositive(raw string) (int, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, errs.NewBadRequestError(errs.MsgBadRequest)
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errs.NewBadRequestError(errs.MsgBadRequest)
	}
	return n, nil
}
