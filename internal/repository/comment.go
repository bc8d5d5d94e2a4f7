package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/newsapi/internal/errs"
	"github.com/deppfellow/newsapi/internal/model"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `comment_id, article_id, body, votes, author, created_at`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.CommentID, &c.ArticleID, &c.Body, &c.Votes, &c.Author, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByArticle returns one page of an article's comments, newest first.
// It does not check that the article exists.
func (r *CommentRepository) ListByArticle(ctx context.Context, articleID, limit, offset int) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC, comment_id DESC
		LIMIT $2 OFFSET $3`,
		articleID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments for article %d: %w", articleID, err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return model.Comment{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning comments: %w", err)
	}
	return comments, nil
}

// Create inserts a comment. An unknown author or article surfaces as a
// foreign key violation.
func (r *CommentRepository) Create(ctx context.Context, articleID int, username, body string) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRow(ctx, `
		INSERT INTO comments (author, body, article_id)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns,
		username, body, articleID,
	))
	if err != nil {
		return nil, fmt.Errorf("creating comment on article %d: %w", articleID, err)
	}
	return comment, nil
}

// UpdateVotes adds delta to the comment's votes. A missing id is a 404
// "Comment not found".
func (r *CommentRepository) UpdateVotes(ctx context.Context, commentID, delta int) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRow(ctx, `
		UPDATE comments SET votes = votes + $1
		WHERE comment_id = $2
		RETURNING `+commentColumns,
		delta, commentID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError(errs.MsgCommentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("updating votes for comment %d: %w", commentID, err)
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, commentID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("deleting comment %d: %w", commentID, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError(errs.MsgCommentNotFound)
	}
	return nil
}
