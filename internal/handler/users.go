package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/model"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

type UsernameRequest struct {
	Username string `param:"username" json:"-"`
}

func (r *UsernameRequest) Validate() error {
	return nil
}

type UsersResponse struct {
	Users []model.User `json:"users"`
}

type UserResponse struct {
	User *model.User `json:"user"`
}

func (h *UserHandler) ListUsers(c echo.Context, _ *EmptyRequest) (*UsersResponse, error) {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return &UsersResponse{Users: users}, nil
}

func (h *UserHandler) GetUser(c echo.Context, req *UsernameRequest) (*UserResponse, error) {
	user, err := h.users.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}
