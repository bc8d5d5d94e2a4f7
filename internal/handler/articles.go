package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/repository"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
	"github.com/deppfellow/newsapi/internal/validation"
)

type ArticleHandler struct {
	Handler
	articles *service.ArticleService
}

func NewArticleHandler(s *server.Server, articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		Handler:  NewHandler(s),
		articles: articles,
	}
}

// ListArticlesRequest keeps every query parameter as a raw string; the
// query builder owns their validation.
type ListArticlesRequest struct {
	SortBy string `query:"sort_by" json:"-"`
	Order  string `query:"order" json:"-"`
	Topic  string `query:"topic" json:"-"`
	Limit  string `query:"limit" json:"-"`
	Page   string `query:"p" json:"-"`
}

func (r *ListArticlesRequest) Validate() error {
	return nil
}

type ArticleIDRequest struct {
	ArticleID int32 `param:"article_id" json:"-"`
}

func (r *ArticleIDRequest) Validate() error {
	return nil
}

type CreateArticleRequest struct {
	Author        string  `json:"author" validate:"required"`
	Title         string  `json:"title" validate:"required"`
	Body          string  `json:"body" validate:"required"`
	Topic         string  `json:"topic" validate:"required"`
	ArticleImgURL *string `json:"article_img_url"`
}

func (r *CreateArticleRequest) Validate() error {
	return validation.Struct(r)
}

// VoteBody is the PATCH body for articles and comments. IncVotes is a
// pointer so a missing field is told apart from zero.
// Ids and increments are int32 to match the INTEGER columns.
type VoteBody struct {
	IncVotes *int32 `json:"inc_votes" validate:"required"`
}

type ArticleVoteRequest struct {
	ArticleID int32 `param:"article_id" json:"-"`
	VoteBody
}

func (r *ArticleVoteRequest) Validate() error {
	return validation.Struct(r)
}

type ArticleResponse struct {
	Article *model.Article `json:"article"`
}

func (h *ArticleHandler) ListArticles(c echo.Context, req *ListArticlesRequest) (*model.ArticlePage, error) {
	return h.articles.List(c.Request().Context(), repository.ListArticlesOptions{
		SortBy: req.SortBy,
		Order:  req.Order,
		Topic:  req.Topic,
		Limit:  req.Limit,
		Page:   req.Page,
	})
}

func (h *ArticleHandler) GetArticle(c echo.Context, req *ArticleIDRequest) (*ArticleResponse, error) {
	article, err := h.articles.GetByID(c.Request().Context(), int(req.ArticleID))
	if err != nil {
		return nil, err
	}
	return &ArticleResponse{Article: article}, nil
}

func (h *ArticleHandler) CreateArticle(c echo.Context, req *CreateArticleRequest) (*ArticleResponse, error) {
	article, err := h.articles.Create(c.Request().Context(), repository.CreateArticleParams{
		Author:        req.Author,
		Title:         req.Title,
		Body:          req.Body,
		Topic:         req.Topic,
		ArticleImgURL: req.ArticleImgURL,
	})
	if err != nil {
		return nil, err
	}
	return &ArticleResponse{Article: article}, nil
}

func (h *ArticleHandler) UpdateArticleVotes(c echo.Context, req *ArticleVoteRequest) (*ArticleResponse, error) {
	article, err := h.articles.UpdateVotes(c.Request().Context(), int(req.ArticleID), int(*req.IncVotes))
	if err != nil {
		return nil, err
	}
	return &ArticleResponse{Article: article}, nil
}

func (h *ArticleHandler) DeleteArticle(c echo.Context, req *ArticleIDRequest) error {
	return h.articles.Delete(c.Request().Context(), int(req.ArticleID))
}
