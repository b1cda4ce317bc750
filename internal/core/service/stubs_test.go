package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	seq       int
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// seed stores a user directly, bypassing hashing.
func (r *stubUserRepo) seed(name, email string) *domain.User {
	u := &domain.User{Name: name, Email: email, Avatar: domain.GravatarURL(email), Date: time.Now().UTC()}
	_ = r.Create(context.Background(), u)
	return u
}

type stubPostRepo struct {
	mu      sync.Mutex
	posts   map[string]*domain.Post
	seq     int
	saves   int
	saveErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Likes = append([]domain.Reaction{}, p.Likes...)
	clone.Dislikes = append([]domain.Reaction{}, p.Dislikes...)
	clone.Comments = append([]domain.Comment{}, p.Comments...)
	return &clone
}

func (r *stubPostRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

// assignIDs mirrors the Mongo repository: new entries get ids on write.
func (r *stubPostRepo) assignIDs(p *domain.Post) {
	if p.ID == "" {
		p.ID = r.nextID("post")
	}
	for i := range p.Likes {
		if p.Likes[i].ID == "" {
			p.Likes[i].ID = r.nextID("like")
		}
	}
	for i := range p.Dislikes {
		if p.Dislikes[i].ID == "" {
			p.Dislikes[i].ID = r.nextID("dislike")
		}
	}
	for i := range p.Comments {
		if p.Comments[i].ID == "" {
			p.Comments[i].ID = r.nextID("comment")
		}
	}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignIDs(p)
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Save(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.assignIDs(p)
	r.posts[p.ID] = clonePost(p)
	r.saves++
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubRevocations struct {
	revoked  map[string]time.Duration
	checkErr error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}
