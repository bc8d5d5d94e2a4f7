package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/newsapi/internal/model"
)

type TopicRepository struct {
	db DBTX
}

func NewTopicRepository(db DBTX) *TopicRepository {
	return &TopicRepository{db: db}
}

func scanTopic(row pgx.CollectableRow) (model.Topic, error) {
	var t model.Topic
	err := row.Scan(&t.Slug, &t.Description, &t.ImgURL)
	return t, err
}

func (r *TopicRepository) List(ctx context.Context) ([]model.Topic, error) {
	rows, err := r.db.Query(ctx, `SELECT slug, description, img_url FROM topics ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	topics, err := pgx.CollectRows(rows, scanTopic)
	if err != nil {
		return nil, fmt.Errorf("scanning topics: %w", err)
	}
	return topics, nil
}

// Create inserts a topic. A duplicate slug surfaces as a unique violation.
func (r *TopicRepository) Create(ctx context.Context, topic model.Topic) (*model.Topic, error) {
	var t model.Topic
	err := r.db.QueryRow(ctx, `
		INSERT INTO topics (slug, description, img_url)
		VALUES ($1, $2, $3)
		RETURNING slug, description, img_url`,
		topic.Slug, topic.Description, topic.ImgURL,
	).Scan(&t.Slug, &t.Description, &t.ImgURL)
	if err != nil {
		return nil, fmt.Errorf("creating topic %q: %w", topic.Slug, err)
	}
	return &t, nil
}
