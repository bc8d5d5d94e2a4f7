package handler

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"

	"github.com/deppfellow/newsapi/internal/server"
)

//go:embed endpoints.yaml
var endpointsYAML []byte

// APIHandler serves the description of every endpoint at GET /api.
type APIHandler struct {
	Handler
	endpoints map[string]interface{}
}

// NewAPIHandler parses the embedded endpoints document once.
func NewAPIHandler(s *server.Server) (*APIHandler, error) {
	endpoints, err := LoadEndpoints(endpointsYAML)
	if err != nil {
		return nil, err
	}
	return &APIHandler{
		Handler:   NewHandler(s),
		endpoints: endpoints,
	}, nil
}

// LoadEndpoints decodes an endpoints document keyed by "METHOD /path".
func LoadEndpoints(raw []byte) (map[string]interface{}, error) {
	var endpoints map[string]interface{}
	if err := yaml.Unmarshal(raw, &endpoints); err != nil {
		return nil, fmt.Errorf("failed to parse endpoints document: %w", err)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("endpoints document is empty")
	}
	return endpoints, nil
}

func (h *APIHandler) GetEndpoints(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"endpoints": h.endpoints,
	})
}
