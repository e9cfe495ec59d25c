package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/repository"
)

// In-memory repository fakes. They honor the same contracts as the
// postgres implementations: sentinel errors, copies on read so a
// failed write cannot leak partial in-memory state, and version
// checked updates.

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	deleteErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*entity.Profile // keyed by user id
	deleteErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entity.Profile)}
}

func copyProfile(p *entity.Profile) *entity.Profile {
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Experience = append([]entity.Experience(nil), p.Experience...)
	cp.Education = append([]entity.Education(nil), p.Education...)
	return &cp
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProfile(p), nil
}

func (f *fakeProfileRepo) List(_ context.Context) ([]entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *copyProfile(p))
	}
	return out, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.Experience = append([]entity.Experience(nil), existing.Experience...)
		p.Education = append([]entity.Education(nil), existing.Education...)
		p.Version = existing.Version + 1
	} else {
		p.ID = uuid.NewString()
		p.Version = 0
	}
	f.profiles[p.UserID] = copyProfile(p)
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.profiles[p.UserID]
	if !ok || existing.Version != p.Version {
		return repository.ErrVersionConflict
	}
	p.Version++
	f.profiles[p.UserID] = copyProfile(p)
	return nil
}

func (f *fakeProfileRepo) DeleteByUserID(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	return nil
}

type fakePostRepo struct {
	mu        sync.Mutex
	posts     map[string]*entity.Post
	deleteErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*entity.Post)}
}

func copyPost(p *entity.Post) *entity.Post {
	cp := *p
	cp.Likes = append([]entity.Like(nil), p.Likes...)
	cp.Comments = append([]entity.Comment(nil), p.Comments...)
	return &cp
}

func (f *fakePostRepo) Create(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	p.Version = 0
	f.posts[p.ID] = copyPost(p)
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyPost(p), nil
}

func (f *fakePostRepo) List(_ context.Context) ([]entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *copyPost(p))
	}
	return out, nil
}

func (f *fakePostRepo) Update(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.posts[p.ID]
	if !ok || existing.Version != p.Version {
		return repository.ErrVersionConflict
	}
	p.Version++
	f.posts[p.ID] = copyPost(p)
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, p := range f.posts {
		if p.UserID == userID {
			delete(f.posts, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.ProfileRepository = (*fakeProfileRepo)(nil)
	_ repository.PostRepository    = (*fakePostRepo)(nil)
)
