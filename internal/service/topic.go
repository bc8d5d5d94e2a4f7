package service

import (
	"context"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/repository"
)

type TopicService struct {
	topics *repository.TopicRepository
}

func NewTopicService(repos *repository.Repositories) *TopicService {
	return &TopicService{topics: repos.Topics}
}

func (s *TopicService) List(ctx context.Context) ([]model.Topic, error) {
	return s.topics.List(ctx)
}

func (s *TopicService) Create(ctx context.Context, topic model.Topic) (*model.Topic, error) {
	return s.topics.Create(ctx, topic)
}
