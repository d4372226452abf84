package model

import "time"

// FeedLimit is the fixed number of posts returned by a feed read.
const FeedLimit = 50

// Post is a single row of the posts table.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Likes     int64     `json:"likes"`
	Comments  int64     `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedPost is a post joined with the identity of its author, the shape the
// feed endpoint returns. The author's id is deliberately not exposed.
// CreatedAt encodes as RFC 3339, e.g. "2026-10-19T16:00:00Z".
type FeedPost struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Likes     int64     `json:"likes"`
	Comments  int64     `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Avatar    string    `json:"avatar"`
	IsCreator bool      `json:"is_creator"`
}
