package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/newsapi/internal/errs"
)

// Reference names one of the columns a precondition may look up. The set is
// closed: there is no way to check an arbitrary table or column.
type Reference int

const (
	TopicSlug Reference = iota + 1
	UserUsername
	ArticleID
)

func (r Reference) String() string {
	switch r {
	case TopicSlug:
		return "topics.slug"
	case UserUsername:
		return "users.username"
	case ArticleID:
		return "articles.article_id"
	default:
		return fmt.Sprintf("Reference(%d)", int(r))
	}
}

var existenceQueries = map[Reference]string{
	TopicSlug:    `SELECT EXISTS (SELECT 1 FROM topics WHERE slug = $1)`,
	UserUsername: `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`,
	ArticleID:    `SELECT EXISTS (SELECT 1 FROM articles WHERE article_id = $1)`,
}

// Presence is the outcome of an existence check.
type Presence int

const (
	NotFound Presence = iota
	Found
)

func (p Presence) String() string {
	if p == Found {
		return "found"
	}
	return "not found"
}

// ExistenceChecker confirms a referenced row exists before a dependent
// operation runs.
type ExistenceChecker struct {
	db DBTX
}

func NewExistenceChecker(db DBTX) *ExistenceChecker {
	return &ExistenceChecker{db: db}
}

// Check runs a single parameterized lookup for value.
func (c *ExistenceChecker) Check(ctx context.Context, ref Reference, value any) (Presence, error) {
	query, ok := existenceQueries[ref]
	if !ok {
		return NotFound, fmt.Errorf("unknown existence reference %s", ref)
	}

	var exists bool
	if err := c.db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return NotFound, fmt.Errorf("checking %s exists: %w", ref, err)
	}

	if exists {
		return Found, nil
	}
	return NotFound, nil
}

// Require is Check with NotFound turned into a 404 "Resource not found".
func (c *ExistenceChecker) Require(ctx context.Context, ref Reference, value any) error {
	presence, err := c.Check(ctx, ref, value)
	if err != nil {
		return err
	}
	if presence == NotFound {
		return errs.NewNotFoundError(errs.MsgResourceNotFound)
	}
	return nil
}
