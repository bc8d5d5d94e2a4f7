package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleSummary_CommentCountIsString(t *testing.T) {
	summary := ArticleSummary{
		ArticleID:    1,
		Title:        "Living in the shadow of a great man",
		CreatedAt:    time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC),
		CommentCount: 11,
	}

	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "11", got["comment_count"])
	assert.Equal(t, "2020-07-09T20:11:00Z", got["created_at"])
	assert.NotContains(t, got, "body")
}

func TestArticle_FlattensSummary(t *testing.T) {
	body := "I find this existence challenging"
	article := Article{ArticleSummary: ArticleSummary{ArticleID: 1}, Body: &body}

	raw, err := json.Marshal(article)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, float64(1), got["article_id"])
	assert.Equal(t, body, got["body"])
	assert.Equal(t, "0", got["comment_count"])
}

func TestArticlePage_TotalCountIsString(t *testing.T) {
	raw, err := json.Marshal(ArticlePage{Articles: []ArticleSummary{}, TotalCount: 0})
	require.NoError(t, err)

	assert.JSONEq(t, `{"articles":[],"total_count":"0"}`, string(raw))
}
