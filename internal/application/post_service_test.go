package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/repository"
)

type postFixture struct {
	users *fakeUserRepo
	posts *fakePostRepo
	svc   *PostService
	alice *entity.User
	bob   *entity.User
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	alice := &entity.User{Name: "Alice", Email: "alice@example.com", AvatarURL: "https://a"}
	bob := &entity.User{Name: "Bob", Email: "bob@example.com", AvatarURL: "https://b"}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))
	return &postFixture{users: users, posts: posts, svc: NewPostService(posts, users, nil), alice: alice, bob: bob}
}

func TestCreatePost_SnapshotsAuthor(t *testing.T) {
	f := newPostFixture(t)

	p, err := f.svc.Create(context.Background(), f.alice.ID, "hello world")
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, p.UserID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "https://a", p.AvatarURL)
	assert.NotEmpty(t, p.ID)
}

func TestLike_SecondLikeConflicts(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	liked, err := f.svc.Like(context.Background(), p.ID, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, liked.Likes, 1)

	_, err = f.svc.Like(context.Background(), p.ID, f.bob.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	current, _ := f.svc.Get(context.Background(), p.ID)
	assert.Len(t, current.Likes, 1, "rejected like must not change the list")
}

func TestUnlike_WithoutLikeConflicts(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	_, err := f.svc.Unlike(context.Background(), p.ID, f.bob.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	current, _ := f.svc.Get(context.Background(), p.ID)
	assert.Empty(t, current.Likes)
}

func TestUnlike_RemovesExactlyTheMatch(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	_, err := f.svc.Like(context.Background(), p.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.Like(context.Background(), p.ID, f.bob.ID)
	require.NoError(t, err)

	after, err := f.svc.Unlike(context.Background(), p.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, after.Likes, 1)
	assert.Equal(t, f.bob.ID, after.Likes[0].UserID)
}

func TestComments_NewestFirstWithOwnIDs(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	_, err := f.svc.AddComment(context.Background(), p.ID, f.bob.ID, "first!")
	require.NoError(t, err)
	after, err := f.svc.AddComment(context.Background(), p.ID, f.bob.ID, "second!")
	require.NoError(t, err)

	require.Len(t, after.Comments, 2)
	assert.Equal(t, "second!", after.Comments[0].Text)
	assert.Equal(t, "first!", after.Comments[1].Text)
	assert.Equal(t, "Bob", after.Comments[0].Name)
	assert.NotEqual(t, after.Comments[0].ID, after.Comments[1].ID)
}

// The requester has several comments on the post; deleting one by id
// must remove that one, not the requester's first.
func TestRemoveComment_KeyedOnCommentID(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.svc.AddComment(context.Background(), p.ID, f.bob.ID, text)
		require.NoError(t, err)
	}
	current, _ := f.svc.Get(context.Background(), p.ID)
	// Comments are newest first: [three, two, one]. Delete "two".
	target := current.Comments[1]
	require.Equal(t, "two", target.Text)

	after, err := f.svc.RemoveComment(context.Background(), p.ID, target.ID, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, after.Comments, 2)
	assert.Equal(t, "three", after.Comments[0].Text)
	assert.Equal(t, "one", after.Comments[1].Text)
}

func TestRemoveComment_NotFoundAndForbidden(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")
	after, err := f.svc.AddComment(context.Background(), p.ID, f.bob.ID, "mine")
	require.NoError(t, err)

	_, err = f.svc.RemoveComment(context.Background(), p.ID, "no-such-comment", f.bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.RemoveComment(context.Background(), p.ID, after.Comments[0].ID, f.alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	current, _ := f.svc.Get(context.Background(), p.ID)
	assert.Len(t, current.Comments, 1, "failed removals must leave the list intact")
}

func TestDeletePost_AuthorOnly(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	err := f.svc.Delete(context.Background(), p.ID, f.bob.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.svc.Delete(context.Background(), p.ID, f.alice.ID)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), p.ID, f.alice.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// Full lifecycle: A posts, B likes, B unlikes, A deletes, fetch 404s.
func TestPostLifecycle(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.alice.ID, "hello")
	require.NoError(t, err)

	liked, err := f.svc.Like(ctx, p.ID, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, liked.Likes, 1)
	assert.Equal(t, f.bob.ID, liked.Likes[0].UserID)

	unliked, err := f.svc.Unlike(ctx, p.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	require.NoError(t, f.svc.Delete(ctx, p.ID, f.alice.ID))

	_, err = f.svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// contendedPostRepo loses the version race on Update a fixed number of
// times before letting the write through, as if another writer kept
// bumping the aggregate underneath the service.
type contendedPostRepo struct {
	*fakePostRepo
	conflicts int
}

func (r *contendedPostRepo) Update(ctx context.Context, p *entity.Post) error {
	if r.conflicts > 0 {
		r.conflicts--
		return repository.ErrVersionConflict
	}
	return r.fakePostRepo.Update(ctx, p)
}

func TestLike_ReplaysThroughVersionConflicts(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	contended := &contendedPostRepo{fakePostRepo: f.posts, conflicts: casRetries - 1}
	svc := NewPostService(contended, f.users, nil)

	liked, err := svc.Like(context.Background(), p.ID, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, liked.Likes, 1, "replayed mutation must apply exactly once")
	assert.Equal(t, f.bob.ID, liked.Likes[0].UserID)

	current, _ := f.svc.Get(context.Background(), p.ID)
	assert.Len(t, current.Likes, 1)
}

func TestLike_VersionConflictBudgetExhausted(t *testing.T) {
	f := newPostFixture(t)
	p, _ := f.svc.Create(context.Background(), f.alice.ID, "hello")

	contended := &contendedPostRepo{fakePostRepo: f.posts, conflicts: casRetries}
	svc := NewPostService(contended, f.users, nil)

	_, err := svc.Like(context.Background(), p.ID, f.bob.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	current, _ := f.svc.Get(context.Background(), p.ID)
	assert.Empty(t, current.Likes, "an abandoned mutation must leave nothing behind")
}
