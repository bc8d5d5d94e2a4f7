package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
	"github.com/deppfellow/newsapi/internal/validation"
)

type TopicHandler struct {
	Handler
	topics *service.TopicService
}

func NewTopicHandler(s *server.Server, topics *service.TopicService) *TopicHandler {
	return &TopicHandler{
		Handler: NewHandler(s),
		topics:  topics,
	}
}

// EmptyRequest is the payload of endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

type CreateTopicRequest struct {
	Slug        string  `json:"slug" validate:"required"`
	Description string  `json:"description" validate:"required"`
	ImgURL      *string `json:"img_url"`
}

func (r *CreateTopicRequest) Validate() error {
	return validation.Struct(r)
}

type TopicsResponse struct {
	Topics []model.Topic `json:"topics"`
}

type TopicResponse struct {
	Topic *model.Topic `json:"topic"`
}

func (h *TopicHandler) ListTopics(c echo.Context, _ *EmptyRequest) (*TopicsResponse, error) {
	topics, err := h.topics.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return &TopicsResponse{Topics: topics}, nil
}

func (h *TopicHandler) CreateTopic(c echo.Context, req *CreateTopicRequest) (*TopicResponse, error) {
	topic, err := h.topics.Create(c.Request().Context(), model.Topic{
		Slug:        req.Slug,
		Description: req.Description,
		ImgURL:      req.ImgURL,
	})
	if err != nil {
		return nil, err
	}
	return &TopicResponse{Topic: topic}, nil
}
