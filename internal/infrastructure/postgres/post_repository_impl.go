package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/repository"
)

// PostRepository stores each post as one row with JSONB likes and
// comments, loaded and persisted as one aggregate.
type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, user_id, text, name, avatar_url, likes, comments, version, created_at`

func scanPost(row interface{ Scan(...any) error }) (*entity.Post, error) {
	p := &entity.Post{}
	var likes, comments []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.AvatarURL,
		&likes, &comments, &p.Version, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(likes, &p.Likes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

func postJSON(p *entity.Post) (likes, comments []byte, err error) {
	if p.Likes == nil {
		p.Likes = []entity.Like{}
	}
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	if likes, err = json.Marshal(p.Likes); err != nil {
		return
	}
	comments, err = json.Marshal(p.Comments)
	return
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	likes, comments, err := postJSON(p)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, text, name, avatar_url, likes, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version, created_at
	`, p.UserID, p.Text, p.Name, p.AvatarURL, likes, comments)

	return mapError(row.Scan(&p.ID, &p.Version, &p.CreatedAt))
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update persists the likes and comments lists conditioned on the
// loaded version; post text and the author snapshot are immutable.
func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	likes, comments, err := postJSON(p)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE posts SET likes = $1, comments = $2, version = version + 1
		WHERE id = $3 AND version = $4
	`, likes, comments, p.ID, p.Version)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrVersionConflict
	}
	p.Version++
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
