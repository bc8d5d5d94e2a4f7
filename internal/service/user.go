package service

import (
	"context"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/repository"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{users: repos.Users}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}
