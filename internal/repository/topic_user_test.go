package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/newsapi/internal/errs"
	"github.com/deppfellow/newsapi/internal/model"
)

func TestTopicRepository_List(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM topics").
		WillReturnRows(pgxmock.NewRows([]string{"slug", "description", "img_url"}).
			AddRow("cats", "Not dogs", (*string)(nil)).
			AddRow("mitch", "The man, the Mitch, the legend", (*string)(nil)))

	topics, err := NewTopicRepository(mock).List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Topic{
		{Slug: "cats", Description: "Not dogs"},
		{Slug: "mitch", Description: "The man, the Mitch, the legend"},
	}, topics)
}

func TestTopicRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "topics_pkey"}
	mock.ExpectQuery("INSERT INTO topics").
		WithArgs("cats", "again", (*string)(nil)).
		WillReturnError(dup)

	_, err := NewTopicRepository(mock).Create(context.Background(), model.Topic{Slug: "cats", Description: "again"})

	assert.ErrorIs(t, err, dup)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("lurker").
		WillReturnRows(pgxmock.NewRows([]string{"username", "name", "avatar_url"}).
			AddRow("lurker", "do_nothing", strPtr("https://example.com/lurker.png")))
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)

	user, err := repo.GetByUsername(context.Background(), "lurker")
	require.NoError(t, err)
	assert.Equal(t, "do_nothing", user.Name)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, errs.NewNotFoundError("User not found"))
}

func TestUserRepository_List(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM users").
		WillReturnRows(pgxmock.NewRows([]string{"username", "name", "avatar_url"}).
			AddRow("butter_bridge", "jonny", strPtr("a")).
			AddRow("lurker", "do_nothing", strPtr("b")))

	users, err := NewUserRepository(mock).List(context.Background())

	require.NoError(t, err)
	assert.Len(t, users, 2)
}
