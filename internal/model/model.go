// Package model holds the persisted entities and the shapes the API returns.
package model

import "time"

// Topic is a category articles are filed under.
type Topic struct {
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImgURL      *string `json:"img_url"`
}

// User is an article or comment author.
type User struct {
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// ArticleSummary is an article as it appears in listings: no body.
//
// CommentCount is derived on every read and serialized as a string.
type ArticleSummary struct {
	ArticleID     int       `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL *string   `json:"article_img_url"`
	CommentCount  int64     `json:"comment_count,string"`
}

// Article is the full article including its body.
type Article struct {
	ArticleSummary
	Body *string `json:"body"`
}

// ArticlePage is one page of an article listing. TotalCount ignores
// limit and page and is serialized as a string.
type ArticlePage struct {
	Articles   []ArticleSummary `json:"articles"`
	TotalCount int64            `json:"total_count,string"`
}

// Comment belongs to exactly one article.
type Comment struct {
	CommentID int       `json:"comment_id"`
	ArticleID int       `json:"article_id"`
	Body      *string   `json:"body"`
	Votes     int       `json:"votes"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
