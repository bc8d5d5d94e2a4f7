// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/handler"
	"github.com/deppfellow/newsapi/internal/middleware"
	"github.com/deppfellow/newsapi/internal/server"
)

// NewRouter builds the echo instance with global middleware, the error
// handler, system routes and the /api group.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Metrics.RecordRequests(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerAPIRoutes(api, h)

	return router
}

func registerAPIRoutes(api *echo.Group, h *handler.Handlers) {
	api.GET("", h.API.GetEndpoints)

	topics := api.Group("/topics")
	topics.GET("", handler.Handle(h.Topics.Handler, h.Topics.ListTopics, http.StatusOK))
	topics.POST("", handler.Handle(h.Topics.Handler, h.Topics.CreateTopic, http.StatusCreated))

	articles := api.Group("/articles")
	articles.GET("", handler.Handle(h.Articles.Handler, h.Articles.ListArticles, http.StatusOK))
	articles.POST("", handler.Handle(h.Articles.Handler, h.Articles.CreateArticle, http.StatusCreated))
	articles.GET("/:article_id", handler.Handle(h.Articles.Handler, h.Articles.GetArticle, http.StatusOK))
	articles.PATCH("/:article_id", handler.Handle(h.Articles.Handler, h.Articles.UpdateArticleVotes, http.StatusOK))
	articles.DELETE("/:article_id", handler.HandleNoContent(h.Articles.Handler, h.Articles.DeleteArticle, http.StatusNoContent))
	articles.GET("/:article_id/comments", handler.Handle(h.Comments.Handler, h.Comments.ListComments, http.StatusOK))
	articles.POST("/:article_id/comments", handler.Handle(h.Comments.Handler, h.Comments.CreateComment, http.StatusCreated))

	comments := api.Group("/comments")
	comments.PATCH("/:comment_id", handler.Handle(h.Comments.Handler, h.Comments.UpdateCommentVotes, http.StatusOK))
	comments.DELETE("/:comment_id", handler.HandleNoContent(h.Comments.Handler, h.Comments.DeleteComment, http.StatusNoContent))

	users := api.Group("/users")
	users.GET("", handler.Handle(h.Users.Handler, h.Users.ListUsers, http.StatusOK))
	users.GET("/:username", handler.Handle(h.Users.Handler, h.Users.GetUser, http.StatusOK))
}
