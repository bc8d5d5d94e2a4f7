package service

import (
	"context"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/repository"
	"github.com/deppfellow/newsapi/internal/server"
)

type ArticleService struct {
	server   *server.Server
	articles *repository.ArticleRepository
	exists   *repository.ExistenceChecker
}

func NewArticleService(s *server.Server, repos *repository.Repositories) *ArticleService {
	return &ArticleService{
		server:   s,
		articles: repos.Articles,
		exists:   repos.Existence,
	}
}

// List validates the listing parameters, confirms the topic filter names a
// real topic, then fetches the page and the total.
//
// An unknown topic is a 404 while a known topic with no articles is an
// empty page.
func (s *ArticleService) List(ctx context.Context, opts repository.ListArticlesOptions) (*model.ArticlePage, error) {
	if opts.DefaultLimit == 0 {
		opts.DefaultLimit = s.server.Config.Pagination.DefaultLimit
	}

	q, err := repository.BuildArticleQuery(opts)
	if err != nil {
		return nil, err
	}

	if q.Topic != "" {
		if err := s.exists.Require(ctx, repository.TopicSlug, q.Topic); err != nil {
			return nil, err
		}
	}

	return s.articles.List(ctx, q)
}

func (s *ArticleService) GetByID(ctx context.Context, articleID int) (*model.Article, error) {
	return s.articles.GetByID(ctx, articleID)
}

func (s *ArticleService) Create(ctx context.Context, params repository.CreateArticleParams) (*model.Article, error) {
	article, err := s.articles.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.server.Metrics.IncrementArticlesCreated()
	return article, nil
}

func (s *ArticleService) UpdateVotes(ctx context.Context, articleID, delta int) (*model.Article, error) {
	return s.articles.UpdateVotes(ctx, articleID, delta)
}

func (s *ArticleService) Delete(ctx context.Context, articleID int) error {
	return s.articles.Delete(ctx, articleID)
}
