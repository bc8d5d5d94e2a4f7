package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/newsapi/internal/config"
	"github.com/deppfellow/newsapi/internal/handler"
	"github.com/deppfellow/newsapi/internal/metrics"
	"github.com/deppfellow/newsapi/internal/repository"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
)

var fixedTime = time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC)

var (
	summaryColumns = []string{
		"article_id", "title", "topic", "author", "created_at", "votes", "article_img_url", "comment_count",
	}
	articleColumns = []string{
		"article_id", "title", "topic", "author", "created_at", "votes", "article_img_url", "body", "comment_count",
	}
	commentColumns = []string{"comment_id", "article_id", "body", "votes", "author", "created_at"}
)

type testAPI struct {
	mock   pgxmock.PgxPoolIface
	router *echo.Echo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:    config.Primary{Env: "test"},
			Pagination: config.PaginationConfig{DefaultLimit: 10},
		},
		Logger:  &logger,
		Metrics: metrics.NewWithRegistry(prometheus.NewRegistry(), &logger),
	}

	services := service.NewServices(s, repository.NewRepositories(mock))
	handlers, err := handler.NewHandlers(s, services, mock)
	require.NoError(t, err)

	return &testAPI{mock: mock, router: NewRouter(s, handlers)}
}

func (api *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func assertMsg(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()

	assert.Equal(t, status, rec.Code)
	assert.Equal(t, map[string]any{"msg": msg}, decode(t, rec))
}

func strPtr(s string) *string {
	return &s
}

func TestGetEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api", "")

	require.Equal(t, http.StatusOK, rec.Code)
	endpoints, ok := decode(t, rec)["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, endpoints, "GET /api/articles")
	assert.Contains(t, endpoints, "PATCH /api/comments/:comment_id")
}

func TestUnknownRouteIsEmpty404(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/not-a-route"},
		{http.MethodGet, "/nope"},
		{http.MethodPut, "/api/articles/1"},
	} {
		rec := api.do(tc.method, tc.target, "")

		assert.Equal(t, http.StatusNotFound, rec.Code, tc.target)
		assert.Empty(t, rec.Body.String(), tc.target)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = api.do(http.MethodGet, "/api", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListArticles(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM articles LEFT JOIN comments").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(summaryColumns).
			AddRow(2, "Sony Vaio; or, The Laptop", "mitch", "icellusedkars", fixedTime, 0, strPtr("img"), int64(0)).
			AddRow(1, "Living in the shadow of a great man", "mitch", "butter_bridge", fixedTime, 100, strPtr("img"), int64(11)))
	api.mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(13)))

	rec := api.do(http.MethodGet, "/api/articles?sort_by=votes&order=asc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "13", body["total_count"])

	articles := body["articles"].([]any)
	require.Len(t, articles, 2)
	second := articles[1].(map[string]any)
	assert.Equal(t, "11", second["comment_count"])
	assert.NotContains(t, second, "body")
}

func TestListArticles_BadQuery(t *testing.T) {
	api := newTestAPI(t)

	for _, target := range []string{
		"/api/articles?limit=five",
		"/api/articles?p=0",
		"/api/articles?sort_by=password",
		"/api/articles?order=sideways",
	} {
		rec := api.do(http.MethodGet, target, "")
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")
	}
}

func TestListArticles_UnknownTopic(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM topics WHERE slug").
		WithArgs("dogs").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	rec := api.do(http.MethodGet, "/api/articles?topic=dogs", "")

	assertMsg(t, rec, http.StatusNotFound, "Resource not found")
}

func TestGetArticle(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("WHERE articles.article_id").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(articleColumns).
			AddRow(1, "Living in the shadow of a great man", "mitch", "butter_bridge", fixedTime, 100, strPtr("img"), strPtr("I find this existence challenging"), int64(11)))

	rec := api.do(http.MethodGet, "/api/articles/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	article := decode(t, rec)["article"].(map[string]any)
	assert.Equal(t, float64(1), article["article_id"])
	assert.Equal(t, "I find this existence challenging", article["body"])
	assert.Equal(t, "11", article["comment_count"])
}

func TestGetArticle_Errors(t *testing.T) {
	t.Run("unparseable id", func(t *testing.T) {
		api := newTestAPI(t)

		assertMsg(t, api.do(http.MethodGet, "/api/articles/abc", ""), http.StatusBadRequest, "Bad request")
	})

	t.Run("missing article", func(t *testing.T) {
		api := newTestAPI(t)
		api.mock.ExpectQuery("WHERE articles.article_id").
			WithArgs(999).
			WillReturnError(pgx.ErrNoRows)

		assertMsg(t, api.do(http.MethodGet, "/api/articles/999", ""), http.StatusNotFound, "Article not found")
	})

	t.Run("store failure", func(t *testing.T) {
		api := newTestAPI(t)
		api.mock.ExpectQuery("WHERE articles.article_id").
			WithArgs(1).
			WillReturnError(errors.New("connection reset by peer"))

		assertMsg(t, api.do(http.MethodGet, "/api/articles/1", ""), http.StatusInternalServerError, "Internal Server Error")
	})
}

func TestCreateArticle(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("INSERT INTO articles").
		WithArgs("butter_bridge", "New", "Body", "cats", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(articleColumns[:8]).
			AddRow(14, "New", "cats", "butter_bridge", fixedTime, 0, (*string)(nil), strPtr("Body")))

	rec := api.do(http.MethodPost, "/api/articles",
		`{"author":"butter_bridge","title":"New","body":"Body","topic":"cats"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	article := decode(t, rec)["article"].(map[string]any)
	assert.Equal(t, float64(14), article["article_id"])
	assert.Equal(t, float64(0), article["votes"])
	assert.Equal(t, "0", article["comment_count"])
}

func TestCreateArticle_MissingField(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/articles", `{"author":"butter_bridge","title":"New","topic":"cats"}`)

	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestCreateArticle_UnknownTopic(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("INSERT INTO articles").
		WithArgs("butter_bridge", "New", "Body", "dogs", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23503", TableName: "articles", ConstraintName: "articles_topic_fkey"})

	rec := api.do(http.MethodPost, "/api/articles",
		`{"author":"butter_bridge","title":"New","body":"Body","topic":"dogs"}`)

	assertMsg(t, rec, http.StatusNotFound, "Resource not found")
}

func TestUpdateArticleVotes(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("UPDATE articles SET votes").
		WithArgs(-100, 1).
		WillReturnRows(pgxmock.NewRows(articleColumns).
			AddRow(1, "Living in the shadow of a great man", "mitch", "butter_bridge", fixedTime, 0, strPtr("img"), strPtr("body"), int64(11)))

	rec := api.do(http.MethodPatch, "/api/articles/1", `{"inc_votes":-100}`)

	require.Equal(t, http.StatusOK, rec.Code)
	article := decode(t, rec)["article"].(map[string]any)
	assert.Equal(t, float64(0), article["votes"])
}

func TestUpdateVotes_BadBody(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []string{`{}`, `{"inc_votes":"one"}`, `{"inc_votes":1.5}`, `{"inc_votes":3000000000}`, `not json`} {
		rec := api.do(http.MethodPatch, "/api/articles/1", body)
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")

		rec = api.do(http.MethodPatch, "/api/comments/1", body)
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")
	}
}

func TestUnsupportedContentTypeIsBadRequest(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/topics", strings.NewReader("slug=cooking"))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestIDsOutsideIntegerRange(t *testing.T) {
	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/articles/3000000000", ""},
		{http.MethodPatch, "/api/articles/3000000000", `{"inc_votes":1}`},
		{http.MethodDelete, "/api/articles/-3000000000", ""},
		{http.MethodGet, "/api/articles/3000000000/comments", ""},
		{http.MethodPost, "/api/articles/3000000000/comments", `{"username":"butter_bridge","body":"Hi"}`},
		{http.MethodPatch, "/api/comments/3000000000", `{"inc_votes":1}`},
		{http.MethodDelete, "/api/comments/3000000000", ""},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.target, func(t *testing.T) {
			api := newTestAPI(t)

			assertMsg(t, api.do(r.method, r.target, r.body), http.StatusBadRequest, "Bad request")
		})
	}
}

func TestDeleteArticle(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectExec("DELETE FROM articles").
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	api.mock.ExpectExec("DELETE FROM articles").
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	rec := api.do(http.MethodDelete, "/api/articles/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do(http.MethodDelete, "/api/articles/1", "")
	assertMsg(t, rec, http.StatusNotFound, "Article not found")
}

func TestListComments(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM articles WHERE article_id").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	api.mock.ExpectQuery("FROM comments").
		WithArgs(1, 5, 5).
		WillReturnRows(pgxmock.NewRows(commentColumns).
			AddRow(6, 1, strPtr("I hate streaming eyes even more"), 0, "icellusedkars", fixedTime))

	rec := api.do(http.MethodGet, "/api/articles/1/comments?limit=5&p=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	comments := decode(t, rec)["comments"].([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, float64(6), comments[0].(map[string]any)["comment_id"])
}

func TestListComments_ArticleWithoutComments(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM articles WHERE article_id").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	api.mock.ExpectQuery("FROM comments").
		WithArgs(2, 10, 0).
		WillReturnRows(pgxmock.NewRows(commentColumns))

	rec := api.do(http.MethodGet, "/api/articles/2/comments", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"comments":[]}`, rec.Body.String())
}

func TestListComments_MissingArticle(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM articles WHERE article_id").
		WithArgs(1000).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	rec := api.do(http.MethodGet, "/api/articles/1000/comments", "")

	assertMsg(t, rec, http.StatusNotFound, "Resource not found")
}

func TestCreateComment(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM articles WHERE article_id").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	api.mock.ExpectQuery("INSERT INTO comments").
		WithArgs("butter_bridge", "Nice", 1).
		WillReturnRows(pgxmock.NewRows(commentColumns).
			AddRow(19, 1, strPtr("Nice"), 0, "butter_bridge", fixedTime))

	rec := api.do(http.MethodPost, "/api/articles/1/comments", `{"username":"butter_bridge","body":"Nice"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decode(t, rec)["comment"].(map[string]any)
	assert.Equal(t, float64(19), comment["comment_id"])
	assert.Equal(t, "butter_bridge", comment["author"])
}

func TestCreateComment_Errors(t *testing.T) {
	t.Run("missing body field", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodPost, "/api/articles/1/comments", `{"username":"butter_bridge"}`)
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")
	})

	t.Run("unknown user", func(t *testing.T) {
		api := newTestAPI(t)
		api.mock.ExpectQuery("FROM articles WHERE article_id").
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		api.mock.ExpectQuery("INSERT INTO comments").
			WithArgs("nobody", "Hi", 1).
			WillReturnError(&pgconn.PgError{Code: "23503", TableName: "comments", ConstraintName: "comments_author_fkey"})

		rec := api.do(http.MethodPost, "/api/articles/1/comments", `{"username":"nobody","body":"Hi"}`)
		assertMsg(t, rec, http.StatusNotFound, "Resource not found")
	})

	t.Run("missing article", func(t *testing.T) {
		api := newTestAPI(t)
		api.mock.ExpectQuery("FROM articles WHERE article_id").
			WithArgs(1000).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		rec := api.do(http.MethodPost, "/api/articles/1000/comments", `{"username":"butter_bridge","body":"Hi"}`)
		assertMsg(t, rec, http.StatusNotFound, "Resource not found")
	})
}

func TestUpdateCommentVotes(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("UPDATE comments SET votes").
		WithArgs(1, 3).
		WillReturnRows(pgxmock.NewRows(commentColumns).
			AddRow(3, 1, strPtr("Replacing the quiet elegance of the dark suit and tie"), 101, "icellusedkars", fixedTime))

	rec := api.do(http.MethodPatch, "/api/comments/3", `{"inc_votes":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	comment := decode(t, rec)["comment"].(map[string]any)
	assert.Equal(t, float64(101), comment["votes"])
}

func TestUpdateCommentVotes_Missing(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("UPDATE comments SET votes").
		WithArgs(1, 1000).
		WillReturnError(pgx.ErrNoRows)

	rec := api.do(http.MethodPatch, "/api/comments/1000", `{"inc_votes":1}`)

	assertMsg(t, rec, http.StatusNotFound, "Comment not found")
}

func TestDeleteComment(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectExec("DELETE FROM comments WHERE comment_id").
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	api.mock.ExpectExec("DELETE FROM comments WHERE comment_id").
		WithArgs(1000).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	rec := api.do(http.MethodDelete, "/api/comments/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assertMsg(t, api.do(http.MethodDelete, "/api/comments/1000", ""), http.StatusNotFound, "Comment not found")
	assertMsg(t, api.do(http.MethodDelete, "/api/comments/abc", ""), http.StatusBadRequest, "Bad request")
}

func TestTopics(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM topics").
		WillReturnRows(pgxmock.NewRows([]string{"slug", "description", "img_url"}).
			AddRow("cats", "Not dogs", (*string)(nil)).
			AddRow("mitch", "The man, the Mitch, the legend", (*string)(nil)))
	api.mock.ExpectQuery("INSERT INTO topics").
		WithArgs("cooking", "Hey good looking", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"slug", "description", "img_url"}).
			AddRow("cooking", "Hey good looking", (*string)(nil)))
	api.mock.ExpectQuery("INSERT INTO topics").
		WithArgs("cooking", "again", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", TableName: "topics", ConstraintName: "topics_pkey"})

	rec := api.do(http.MethodGet, "/api/topics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["topics"], 2)

	rec = api.do(http.MethodPost, "/api/topics", `{"slug":"cooking","description":"Hey good looking"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "cooking", decode(t, rec)["topic"].(map[string]any)["slug"])

	rec = api.do(http.MethodPost, "/api/topics", `{"slug":"cooking","description":"again"}`)
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/topics", `{"slug":"cooking"}`)
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestUsers(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectQuery("FROM users ORDER BY").
		WillReturnRows(pgxmock.NewRows([]string{"username", "name", "avatar_url"}).
			AddRow("butter_bridge", "jonny", strPtr("https://example.com/a.jpg")))
	api.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("butter_bridge").
		WillReturnRows(pgxmock.NewRows([]string{"username", "name", "avatar_url"}).
			AddRow("butter_bridge", "jonny", strPtr("https://example.com/a.jpg")))
	api.mock.ExpectQuery("FROM users WHERE username").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	rec := api.do(http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["users"], 1)

	rec = api.do(http.MethodGet, "/api/users/butter_bridge", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jonny", decode(t, rec)["user"].(map[string]any)["name"])

	assertMsg(t, api.do(http.MethodGet, "/api/users/nobody", ""), http.StatusNotFound, "User not found")
}

func TestStatus(t *testing.T) {
	api := newTestAPI(t)
	api.mock.ExpectPing()
	api.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	rec := api.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])

	rec = api.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode(t, rec)["status"])
}
