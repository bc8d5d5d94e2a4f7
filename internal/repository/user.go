package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/newsapi/internal/errs"
	"github.com/deppfellow/newsapi/internal/model"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT username, name, avatar_url FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		var u model.User
		err := row.Scan(&u.Username, &u.Name, &u.AvatarURL)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	return users, nil
}

// GetByUsername returns a 404 "User not found" when nobody has that name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx, `SELECT username, name, avatar_url FROM users WHERE username = $1`, username).
		Scan(&u.Username, &u.Name, &u.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError(errs.MsgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return &u, nil
}
