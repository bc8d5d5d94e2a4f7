package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
	"github.com/deppfellow/newsapi/internal/validation"
)

type CommentHandler struct {
	Handler
	comments *service.CommentService
}

func NewCommentHandler(s *server.Server, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{
		Handler:  NewHandler(s),
		comments: comments,
	}
}

type ListCommentsRequest struct {
	ArticleID int32  `param:"article_id" json:"-"`
	Limit     string `query:"limit" json:"-"`
	Page      string `query:"p" json:"-"`
}

func (r *ListCommentsRequest) Validate() error {
	return nil
}

type CreateCommentRequest struct {
	ArticleID int32  `param:"article_id" json:"-"`
	Username  string `json:"username" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

func (r *CreateCommentRequest) Validate() error {
	return validation.Struct(r)
}

type CommentVoteRequest struct {
	CommentID int32 `param:"comment_id" json:"-"`
	VoteBody
}

func (r *CommentVoteRequest) Validate() error {
	return validation.Struct(r)
}

type CommentIDRequest struct {
	CommentID int32 `param:"comment_id" json:"-"`
}

func (r *CommentIDRequest) Validate() error {
	return nil
}

type CommentsResponse struct {
	Comments []model.Comment `json:"comments"`
}

type CommentResponse struct {
	Comment *model.Comment `json:"comment"`
}

func (h *CommentHandler) ListComments(c echo.Context, req *ListCommentsRequest) (*CommentsResponse, error) {
	comments, err := h.comments.ListByArticle(c.Request().Context(), int(req.ArticleID), req.Limit, req.Page)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return &CommentsResponse{Comments: comments}, nil
}

func (h *CommentHandler) CreateComment(c echo.Context, req *CreateCommentRequest) (*CommentResponse, error) {
	comment, err := h.comments.Create(c.Request().Context(), int(req.ArticleID), req.Username, req.Body)
	if err != nil {
		return nil, err
	}
	return &CommentResponse{Comment: comment}, nil
}

func (h *CommentHandler) UpdateCommentVotes(c echo.Context, req *CommentVoteRequest) (*CommentResponse, error) {
	comment, err := h.comments.UpdateVotes(c.Request().Context(), int(req.CommentID), int(*req.IncVotes))
	if err != nil {
		return nil, err
	}
	return &CommentResponse{Comment: comment}, nil
}

func (h *CommentHandler) DeleteComment(c echo.Context, req *CommentIDRequest) error {
	return h.comments.Delete(c.Request().Context(), int(req.CommentID))
}
