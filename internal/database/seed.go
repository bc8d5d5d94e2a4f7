package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

//go:embed seed/test_data.json
var testDataJSON []byte

// TopicRow is one topic in a seed dataset.
type TopicRow struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImgURL      string `json:"img_url"`
}

// UserRow is one user in a seed dataset.
type UserRow struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ArticleRow is one article in a seed dataset. CreatedAt is epoch milliseconds;
// zero means the time of seeding.
type ArticleRow struct {
	Title         string `json:"title"`
	Topic         string `json:"topic"`
	Author        string `json:"author"`
	Body          string `json:"body"`
	CreatedAt     int64  `json:"created_at"`
	Votes         int    `json:"votes"`
	ArticleImgURL string `json:"article_img_url"`
}

// CommentRow is one comment in a seed dataset. It names its article by title;
// the id is resolved after the articles are inserted.
type CommentRow struct {
	Body         string `json:"body"`
	Votes        int    `json:"votes"`
	Author       string `json:"author"`
	ArticleTitle string `json:"article_title"`
	CreatedAt    int64  `json:"created_at"`
}

// Dataset is everything the seeder loads.
type Dataset struct {
	Topics   []TopicRow   `json:"topics"`
	Users    []UserRow    `json:"users"`
	Articles []ArticleRow `json:"articles"`
	Comments []CommentRow `json:"comments"`
}

// TestDataset returns the embedded fixture: 3 topics, 4 users, 13 articles
// and 18 comments.
func TestDataset() (Dataset, error) {
	var data Dataset
	if err := json.Unmarshal(testDataJSON, &data); err != nil {
		return Dataset{}, errors.Wrap(err, "decoding embedded seed data")
	}
	return data, nil
}

// TxBeginner is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Seed truncates every table and loads data in a single transaction.
func Seed(ctx context.Context, db TxBeginner, logger *zerolog.Logger, data Dataset) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning seed transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`); err != nil {
		return errors.Wrap(err, "truncating tables")
	}

	topicRows := make([][]any, 0, len(data.Topics))
	for _, t := range data.Topics {
		topicRows = append(topicRows, []any{t.Slug, t.Description, nullable(t.ImgURL)})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"topics"}, []string{"slug", "description", "img_url"}, pgx.CopyFromRows(topicRows)); err != nil {
		return errors.Wrap(err, "inserting topics")
	}

	userRows := make([][]any, 0, len(data.Users))
	for _, u := range data.Users {
		userRows = append(userRows, []any{u.Username, u.Name, nullable(u.AvatarURL)})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"users"}, []string{"username", "name", "avatar_url"}, pgx.CopyFromRows(userRows)); err != nil {
		return errors.Wrap(err, "inserting users")
	}

	inserted := make([]InsertedArticle, 0, len(data.Articles))
	for _, a := range data.Articles {
		var row InsertedArticle
		err := tx.QueryRow(ctx, `
			INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING article_id, title`,
			a.Title, a.Topic, a.Author, a.Body, seedTime(a.CreatedAt), a.Votes, nullable(a.ArticleImgURL),
		).Scan(&row.ArticleID, &row.Title)
		if err != nil {
			return errors.Wrapf(err, "inserting article %q", a.Title)
		}
		inserted = append(inserted, row)
	}

	commentRows, err := ResolveComments(data.Comments, ArticleLookup(inserted))
	if err != nil {
		return err
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"comments"}, []string{"article_id", "author", "body", "created_at", "votes"}, pgx.CopyFromRows(commentRows)); err != nil {
		return errors.Wrap(err, "inserting comments")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "committing seed transaction")
	}

	logger.Info().
		Int("topics", len(data.Topics)).
		Int("users", len(data.Users)).
		Int("articles", len(data.Articles)).
		Int("comments", len(data.Comments)).
		Msg("database seeded")
	return nil
}

// InsertedArticle is the part of an inserted article the seeder needs back.
type InsertedArticle struct {
	ArticleID int
	Title     string
}

// ArticleLookup maps title to article id. When titles repeat, the first
// inserted article wins.
func ArticleLookup(articles []InsertedArticle) map[string]int {
	lookup := make(map[string]int, len(articles))
	for _, a := range articles {
		if _, ok := lookup[a.Title]; !ok {
			lookup[a.Title] = a.ArticleID
		}
	}
	return lookup
}

// ResolveComments swaps each comment's article title for its article id and
// returns rows ready for COPY (article_id, author, body, created_at, votes).
func ResolveComments(comments []CommentRow, lookup map[string]int) ([][]any, error) {
	rows := make([][]any, 0, len(comments))
	for _, c := range comments {
		articleID, ok := lookup[c.ArticleTitle]
		if !ok {
			return nil, errors.Errorf("comment references unknown article %q", c.ArticleTitle)
		}
		rows = append(rows, []any{articleID, c.Author, c.Body, seedTime(c.CreatedAt), c.Votes})
	}
	return rows, nil
}

// seedTime converts epoch milliseconds; zero means now.
func seedTime(ms int64) time.Time {
	if ms == 0 {
		return time.Now().UTC()
	}
	return time.UnixMilli(ms).UTC()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
