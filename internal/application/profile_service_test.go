package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/repository"
)

func newProfileService(profiles *fakeProfileRepo) *ProfileService {
	return NewProfileService(profiles, nil, nil, "")
}

func seedProfile(t *testing.T, svc *ProfileService, userID string) *entity.Profile {
	t.Helper()
	p, err := svc.Upsert(context.Background(), userID, ProfileInput{
		Handle: "alice", Status: "Developer", Skills: "Go, SQL",
	})
	require.NoError(t, err)
	return p
}

func TestUpsert_CreatesThenMerges(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())

	p := seedProfile(t, svc, "u1")
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)

	// Second upsert supplies only some fields; the rest must survive.
	p2, err := svc.Upsert(context.Background(), "u1", ProfileInput{
		Handle: "alice", Status: "Developer", Skills: "Go", Company: "Acme", Twitter: "https://twitter.com/alice",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID, "same owner must keep one profile row")
	assert.Equal(t, "Acme", p2.Company)
	assert.Equal(t, "https://twitter.com/alice", p2.Social.Twitter)
	assert.Equal(t, []string{"Go"}, p2.Skills)
}

func TestAddExperience_NewestFirst(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())
	seedProfile(t, svc, "u1")

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		_, err := svc.AddExperience(context.Background(), "u1", entity.Experience{
			Title: title, Company: "Acme", From: time.Now(),
		})
		require.NoError(t, err)
	}

	p, err := svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, p.Experience, 3)
	// Reverse of insertion order: most recent insert first.
	assert.Equal(t, "third", p.Experience[0].Title)
	assert.Equal(t, "second", p.Experience[1].Title)
	assert.Equal(t, "first", p.Experience[2].Title)

	// Every entry got its own id.
	ids := map[string]bool{}
	for _, e := range p.Experience {
		require.NotEmpty(t, e.ID)
		ids[e.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestRemoveExperience_ByID(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())
	seedProfile(t, svc, "u1")

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.AddExperience(context.Background(), "u1", entity.Experience{Title: title, Company: "Acme", From: time.Now()})
		require.NoError(t, err)
	}
	p, _ := svc.Me(context.Background(), "u1")
	middle := p.Experience[1] // "b"

	p2, err := svc.RemoveExperience(context.Background(), "u1", middle.ID)
	require.NoError(t, err)
	require.Len(t, p2.Experience, 2)
	assert.Equal(t, "c", p2.Experience[0].Title)
	assert.Equal(t, "a", p2.Experience[1].Title)
}

func TestRemoveExperience_UnknownIDLeavesListUntouched(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())
	seedProfile(t, svc, "u1")

	_, err := svc.AddExperience(context.Background(), "u1", entity.Experience{Title: "only", Company: "Acme", From: time.Now()})
	require.NoError(t, err)
	before, _ := svc.Me(context.Background(), "u1")

	_, err = svc.RemoveExperience(context.Background(), "u1", "no-such-entry")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	after, _ := svc.Me(context.Background(), "u1")
	assert.Equal(t, before.Experience, after.Experience, "a miss must not delete anything, least of all the last entry")
}

func TestEducation_AddAndRemove(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())
	seedProfile(t, svc, "u1")

	p, err := svc.AddEducation(context.Background(), "u1", entity.Education{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	p2, err := svc.RemoveEducation(context.Background(), "u1", p.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p2.Education)

	_, err = svc.RemoveEducation(context.Background(), "u1", "gone")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMutate_NoProfile(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo())
	_, err := svc.AddExperience(context.Background(), "ghost", entity.Experience{Title: "x", Company: "y", From: time.Now()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// contendedProfileRepo mirrors contendedPostRepo for the profile
// aggregate: Update loses the version race a fixed number of times.
type contendedProfileRepo struct {
	*fakeProfileRepo
	conflicts int
}

func (r *contendedProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	if r.conflicts > 0 {
		r.conflicts--
		return repository.ErrVersionConflict
	}
	return r.fakeProfileRepo.Update(ctx, p)
}

func TestAddExperience_ReplaysThroughVersionConflicts(t *testing.T) {
	profiles := newFakeProfileRepo()
	seedProfile(t, newProfileService(profiles), "u1")

	contended := &contendedProfileRepo{fakeProfileRepo: profiles, conflicts: casRetries - 1}
	svc := NewProfileService(contended, nil, nil, "")

	p, err := svc.AddExperience(context.Background(), "u1", entity.Experience{
		Title: "only once", Company: "Acme", From: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, p.Experience, 1, "replayed append must land exactly one entry")
}

func TestAddExperience_VersionConflictBudgetExhausted(t *testing.T) {
	profiles := newFakeProfileRepo()
	seedProfile(t, newProfileService(profiles), "u1")

	contended := &contendedProfileRepo{fakeProfileRepo: profiles, conflicts: casRetries}
	svc := NewProfileService(contended, nil, nil, "")

	_, err := svc.AddExperience(context.Background(), "u1", entity.Experience{
		Title: "never lands", Company: "Acme", From: time.Now(),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	stored, err := newProfileService(profiles).Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.Experience, "an abandoned append must leave the list untouched")
}
