// Package handler is the first layer after the router.
//
// It binds requests, validates them with the validation package and calls
// the matching service. Status codes for failures are left to the global
// error handler.
package handler

import (
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	API      *APIHandler
	Articles *ArticleHandler
	Comments *CommentHandler
	Topics   *TopicHandler
	Users    *UserHandler
}

// NewHandlers wires the handlers to their services. db is pinged by the
// health check.
func NewHandlers(s *server.Server, services *service.Services, db Pinger) (*Handlers, error) {
	api, err := NewAPIHandler(s)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Health:   NewHealthHandler(s, db),
		API:      api,
		Articles: NewArticleHandler(s, services.Articles),
		Comments: NewCommentHandler(s, services.Comments),
		Topics:   NewTopicHandler(s, services.Topics),
		Users:    NewUserHandler(s, services.Users),
	}, nil
}
