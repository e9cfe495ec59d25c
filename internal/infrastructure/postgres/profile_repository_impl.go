package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/repository"
)

// ProfileRepository stores each profile as one row: scalar columns plus
// JSONB columns for the skills list, social links and the embedded
// experience/education sub-collections. Aggregates are read and written
// whole; Update is guarded by the version column.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `
	id, user_id, handle, company, website, location, bio, status, github_username,
	skills, social, experience, education, version, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*entity.Profile, error) {
	p := &entity.Profile{}
	var skills, social, experience, education []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Handle, &p.Company, &p.Website, &p.Location,
		&p.Bio, &p.Status, &p.GithubUsername, &skills, &social, &experience, &education,
		&p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(social, &p.Social); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return nil, err
	}
	return p, nil
}

func profileJSON(p *entity.Profile) (skills, social, experience, education []byte, err error) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []entity.Experience{}
	}
	if p.Education == nil {
		p.Education = []entity.Education{}
	}
	if skills, err = json.Marshal(p.Skills); err != nil {
		return
	}
	if social, err = json.Marshal(p.Social); err != nil {
		return
	}
	if experience, err = json.Marshal(p.Experience); err != nil {
		return
	}
	education, err = json.Marshal(p.Education)
	return
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Upsert creates the profile or replaces its scalar fields in one
// statement. The unique index on user_id closes the check-then-act
// window: two racing upserts for the same owner both land on the same
// row. The embedded sub-collections are never touched on the update
// path; version is bumped so concurrent list mutations notice.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	skills, social, _, _, err := profileJSON(p)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, handle, company, website, location, bio, status,
			github_username, skills, social, experience, education)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '[]', '[]')
		ON CONFLICT (user_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			status = EXCLUDED.status,
			github_username = EXCLUDED.github_username,
			skills = EXCLUDED.skills,
			social = EXCLUDED.social,
			version = profiles.version + 1,
			updated_at = now()
		RETURNING id, version, created_at, updated_at
	`, p.UserID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status,
		p.GithubUsername, skills, social)

	return mapError(row.Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt))
}

// Update writes the whole aggregate back conditioned on the version the
// caller loaded. Zero rows affected means another writer won the race.
func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	skills, social, experience, education, err := profileJSON(p)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles SET
			handle = $1, company = $2, website = $3, location = $4, bio = $5, status = $6,
			github_username = $7, skills = $8, social = $9, experience = $10, education = $11,
			version = version + 1, updated_at = now()
		WHERE id = $12 AND version = $13
	`, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GithubUsername,
		skills, social, experience, education, p.ID, p.Version)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrVersionConflict
	}
	p.Version++
	return nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
