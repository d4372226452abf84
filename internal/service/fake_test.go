package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/model"
	"github.com/sakif/social-feed/internal/repository"
)

// =========================================================================
// FAKE STORE
// =========================================================================
//
// fakeStore is an in-memory repository.Store. It behaves like the SQL
// implementations for everything the services rely on (unique usernames and
// emails, foreign keys, zero-row likes), and it counts sessions so tests can
// assert that every acquired session was released.

type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]*model.User
	posts    map[int64]*model.Post
	nextUser int64
	nextPost int64
	clock    time.Time

	acquired int
	released int

	// set to a non-nil error to simulate a database failure
	acquireErr error
	queryErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*model.User),
		posts: make(map[int64]*model.Post),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) Acquire(context.Context) (repository.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return &fakeSession{store: f}, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close()                     {}

func (f *fakeStore) balanced() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquired == f.released
}

type fakeSession struct {
	store *fakeStore
	once  sync.Once
}

func (s *fakeSession) Users() repository.UserRepository { return fakeUsers{s.store} }
func (s *fakeSession) Posts() repository.PostRepository { return fakePosts{s.store} }
func (s *fakeSession) Release() {
	s.once.Do(func() {
		s.store.mu.Lock()
		s.store.released++
		s.store.mu.Unlock()
	})
}

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return false, r.f.queryErr
	}
	for _, u := range r.f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeUsers) Create(_ context.Context, nu model.NewUser) (*model.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return nil, r.f.queryErr
	}
	for _, u := range r.f.users {
		if u.Username == nu.Username || u.Email == nu.Email {
			return nil, apperror.UserExists()
		}
	}
	r.f.nextUser++
	stored := &model.User{
		ID:           r.f.nextUser,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		FullName:     nu.FullName,
		Avatar:       nu.Avatar,
	}
	r.f.users[stored.ID] = stored

	out := *stored
	out.PasswordHash = ""
	return &out, nil
}

func (r fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return nil, r.f.queryErr
	}
	for _, u := range r.f.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
}

type fakePosts struct{ f *fakeStore }

func (r fakePosts) ListRecent(_ context.Context, limit int) ([]model.FeedPost, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return nil, r.f.queryErr
	}
	out := make([]model.FeedPost, 0, len(r.f.posts))
	for _, p := range r.f.posts {
		u := r.f.users[p.UserID]
		out = append(out, model.FeedPost{
			ID: p.ID, Content: p.Content, Likes: p.Likes, Comments: p.Comments, CreatedAt: p.CreatedAt,
			Username: u.Username, FullName: u.FullName, Avatar: u.Avatar, IsCreator: u.IsCreator,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakePosts) Create(_ context.Context, userID int64, content string) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return 0, r.f.queryErr
	}
	if _, ok := r.f.users[userID]; !ok {
		return 0, apperror.NotFound("user", userID)
	}
	r.f.nextPost++
	r.f.clock = r.f.clock.Add(time.Second)
	r.f.posts[r.f.nextPost] = &model.Post{ID: r.f.nextPost, UserID: userID, Content: content, CreatedAt: r.f.clock}
	return r.f.nextPost, nil
}

func (r fakePosts) Like(_ context.Context, postID int64) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return 0, r.f.queryErr
	}
	p, ok := r.f.posts[postID]
	if !ok {
		return 0, apperror.NotFound("post", postID)
	}
	p.Likes++
	return p.Likes, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
