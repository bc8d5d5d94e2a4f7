package service

import (
	"context"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/repository"
	"github.com/deppfellow/newsapi/internal/server"
)

type CommentService struct {
	server   *server.Server
	comments *repository.CommentRepository
	exists   *repository.ExistenceChecker
}

func NewCommentService(s *server.Server, repos *repository.Repositories) *CommentService {
	return &CommentService{
		server:   s,
		comments: repos.Comments,
		exists:   repos.Existence,
	}
}

// ListByArticle returns one page of comments, newest first. The article must
// exist; an existing article without comments yields an empty slice.
func (s *CommentService) ListByArticle(ctx context.Context, articleID int, rawLimit, rawPage string) ([]model.Comment, error) {
	limit, offset, err := repository.ParsePagination(rawLimit, rawPage, s.server.Config.Pagination.DefaultLimit)
	if err != nil {
		return nil, err
	}

	if err := s.exists.Require(ctx, repository.ArticleID, articleID); err != nil {
		return nil, err
	}

	return s.comments.ListByArticle(ctx, articleID, limit, offset)
}

// Create checks the article first so a missing article is reported even when
// the username is also unknown. A missing user is left to the foreign key.
func (s *CommentService) Create(ctx context.Context, articleID int, username, body string) (*model.Comment, error) {
	if err := s.exists.Require(ctx, repository.ArticleID, articleID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, articleID, username, body)
	if err != nil {
		return nil, err
	}

	s.server.Metrics.IncrementCommentsCreated()
	return comment, nil
}

func (s *CommentService) UpdateVotes(ctx context.Context, commentID, delta int) (*model.Comment, error) {
	return s.comments.UpdateVotes(ctx, commentID, delta)
}

func (s *CommentService) Delete(ctx context.Context, commentID int) error {
	return s.comments.Delete(ctx, commentID)
}
