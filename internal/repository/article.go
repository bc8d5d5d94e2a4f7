package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/newsapi/internal/errs"
	"github.com/deppfellow/newsapi/internal/model"
)

// ArticleRepository reads and writes articles. Every article it returns
// carries a comment count computed at read time.
type ArticleRepository struct {
	db DBTX
}

func NewArticleRepository(db DBTX) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// CreateArticleParams are the columns a caller may set on a new article.
type CreateArticleParams struct {
	Author        string
	Title         string
	Body          string
	Topic         string
	ArticleImgURL *string
}

const articleColumns = `articles.article_id, articles.title, articles.topic, articles.author,
	articles.created_at, articles.votes, articles.article_img_url, articles.body`

func scanArticleSummary(row pgx.CollectableRow) (model.ArticleSummary, error) {
	var a model.ArticleSummary
	err := row.Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt, &a.Votes, &a.ArticleImgURL, &a.CommentCount)
	return a, err
}

func scanArticle(row pgx.Row) (*model.Article, error) {
	var a model.Article
	err := row.Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt, &a.Votes, &a.ArticleImgURL, &a.Body, &a.CommentCount)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List runs a validated listing: one page of summaries plus the total number
// of articles matching the topic filter.
func (r *ArticleRepository) List(ctx context.Context, q *ArticleQuery) (*model.ArticlePage, error) {
	rows, err := r.db.Query(ctx, q.ListSQL, q.ListArgs...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, scanArticleSummary)
	if err != nil {
		return nil, fmt.Errorf("scanning articles: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, q.CountSQL, q.CountArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting articles: %w", err)
	}

	return &model.ArticlePage{Articles: articles, TotalCount: total}, nil
}

// GetByID fetches one article with its body. A missing id is a 404
// "Article not found".
func (r *ArticleRepository) GetByID(ctx context.Context, articleID int) (*model.Article, error) {
	article, err := scanArticle(r.db.QueryRow(ctx, `
		SELECT `+articleColumns+`, COUNT(comments.comment_id) AS comment_count
		FROM articles
		LEFT JOIN comments ON comments.article_id = articles.article_id
		WHERE articles.article_id = $1
		GROUP BY articles.article_id`,
		articleID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError(errs.MsgArticleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting article %d: %w", articleID, err)
	}
	return article, nil
}

// Create inserts an article. Votes come from the column default and the
// comment count is zero without asking. An unknown author or topic surfaces
// as a foreign key violation.
func (r *ArticleRepository) Create(ctx context.Context, params CreateArticleParams) (*model.Article, error) {
	var a model.Article
	err := r.db.QueryRow(ctx, `
		INSERT INTO articles (author, title, body, topic, article_img_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+articleColumns,
		params.Author, params.Title, params.Body, params.Topic, params.ArticleImgURL,
	).Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt, &a.Votes, &a.ArticleImgURL, &a.Body)
	if err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}

	a.CommentCount = 0
	return &a, nil
}

// UpdateVotes adds delta to the article's votes in a single statement and
// returns the updated article.
func (r *ArticleRepository) UpdateVotes(ctx context.Context, articleID, delta int) (*model.Article, error) {
	article, err := scanArticle(r.db.QueryRow(ctx, `
		WITH updated AS (
			UPDATE articles SET votes = votes + $1
			WHERE article_id = $2
			RETURNING *
		)
		SELECT `+articleColumns+`,
			(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.article_id) AS comment_count
		FROM updated AS articles`,
		delta, articleID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError(errs.MsgArticleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("updating votes for article %d: %w", articleID, err)
	}
	return article, nil
}

// Delete removes an article together with its comments in one statement.
func (r *ArticleRepository) Delete(ctx context.Context, articleID int) error {
	tag, err := r.db.Exec(ctx, `
		WITH removed_comments AS (
			DELETE FROM comments WHERE article_id = $1
		)
		DELETE FROM articles WHERE article_id = $1`,
		articleID,
	)
	if err != nil {
		return fmt.Errorf("deleting article %d: %w", articleID, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError(errs.MsgArticleNotFound)
	}
	return nil
}
