package service

import (
	"github.com/deppfellow/newsapi/internal/repository"
	"github.com/deppfellow/newsapi/internal/server"
)

type Services struct {
	Articles *ArticleService
	Comments *CommentService
	Topics   *TopicService
	Users    *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Articles: NewArticleService(s, repos),
		Comments: NewCommentService(s, repos),
		Topics:   NewTopicService(repos),
		Users:    NewUserService(repos),
	}
}
