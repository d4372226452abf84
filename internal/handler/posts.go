package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/event"
	"github.com/sakif/social-feed/internal/service"
)

// PostsHandler serves the feed, post creation and likes.
type PostsHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostsHandler(posts *service.PostService, logger *slog.Logger) *PostsHandler {
	return &PostsHandler{posts: posts, logger: logger}
}

// CreatePostResponse is returned by a successful create.
type CreatePostResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// LikeResponse carries the like count after the increment.
type LikeResponse struct {
	Likes int64 `json:"likes"`
}

// Handle processes one posts event.
//
// EVENTS:
//
//	OPTIONS                                            → preflight
//	GET (query ignored)                                → 200 [feed post, ...]
//	POST {"action":"create","user_id":1,"content":""}  → 200 {"id": N, "message": "Post created"}
//	POST {"action":"like","post_id":1}                 → 200 {"likes": N}
//	anything else                                      → 405
func (h *PostsHandler) Handle(ctx context.Context, req event.Request, inv event.Invocation) event.Response {
	method := req.Method()
	if method == http.MethodOptions {
		return preflight()
	}

	logger := invocationLogger(h.logger, inv)

	if err := h.posts.Ready(); err != nil {
		return errorResponse(logger, err)
	}

	switch method {
	case http.MethodGet:
		feed, err := h.posts.Feed(ctx)
		if err != nil {
			return errorResponse(logger, err)
		}
		return jsonResponse(http.StatusOK, feed)
	case http.MethodPost:
		return h.handlePost(ctx, logger, req.Body)
	default:
		return errorResponse(logger, apperror.MethodNotAllowed())
	}
}

func (h *PostsHandler) handlePost(ctx context.Context, logger *slog.Logger, body string) event.Response {
	r, err := decodePostsRequest(body)
	if err != nil {
		return errorResponse(logger, err)
	}

	switch r := r.(type) {
	case createPostRequest:
		id, err := h.posts.Create(ctx, r.UserID, r.Content)
		if err != nil {
			return errorResponse(logger, err)
		}
		return jsonResponse(http.StatusOK, CreatePostResponse{ID: id, Message: "Post created"})

	case likePostRequest:
		likes, err := h.posts.Like(ctx, r.PostID)
		if err != nil {
			return errorResponse(logger, err)
		}
		return jsonResponse(http.StatusOK, LikeResponse{Likes: likes})

	default:
		return errorResponse(logger, apperror.MethodNotAllowed())
	}
}
