package application

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	repo "github.com/devlinkhq/devlink-api/internal/domain/repository"
)

// PostService applies mutations to the Post aggregate: likes and
// comments, same load-transform-write cycle as profiles.
type PostService struct {
	Posts  repo.PostRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Logger: logger}
}

// Create snapshots the author's current name and avatar into the post.
// The snapshot is deliberate: later profile edits do not rewrite
// history, and rendering never needs a join.
func (s *PostService) Create(ctx context.Context, userID, text string) (*entity.Post, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("user", "create post", err)
	}
	p := &entity.Post{
		UserID:    u.ID,
		Text:      text,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, apperror.StoreUnavailable("create post", err)
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	out, err := s.Posts.List(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable("list posts", err)
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFoundOr("post", "get post", err)
	}
	return p, nil
}

// Delete removes a post, author only.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string) error {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return notFoundOr("post", "delete post", err)
	}
	if p.UserID != requesterID {
		return apperror.Forbidden("not the author of this post")
	}
	if err := s.Posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("post")
		}
		return apperror.StoreUnavailable("delete post", err)
	}
	return nil
}

func (s *PostService) mutate(ctx context.Context, postID string, fn func(*entity.Post) error) (*entity.Post, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		p, err := s.Posts.GetByID(ctx, postID)
		if err != nil {
			return nil, notFoundOr("post", "load post", err)
		}
		if err := fn(p); err != nil {
			return nil, err
		}
		err = s.Posts.Update(ctx, p)
		if errors.Is(err, repo.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, apperror.StoreUnavailable("update post", err)
		}
		return p, nil
	}
	return nil, apperror.Conflict("post is being modified concurrently, retry")
}

// Like prepends a like entry unless the user already has one, which is
// a Conflict and leaves the list untouched.
func (s *PostService) Like(ctx context.Context, postID, userID string) (*entity.Post, error) {
	return s.mutate(ctx, postID, func(p *entity.Post) error {
		if p.LikedBy(userID) {
			return apperror.Conflict("post already liked")
		}
		p.Likes = append([]entity.Like{{UserID: userID}}, p.Likes...)
		return nil
	})
}

// Unlike removes exactly the matched like entry by its position;
// unliking a post the user never liked is a reported Conflict.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) (*entity.Post, error) {
	return s.mutate(ctx, postID, func(p *entity.Post) error {
		for i, l := range p.Likes {
			if l.UserID == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				return nil
			}
		}
		return apperror.Conflict("post has not yet been liked")
	})
}

// AddComment prepends a comment carrying a generated id and a snapshot
// of the commenting user.
func (s *PostService) AddComment(ctx context.Context, postID, userID, text string) (*entity.Post, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("user", "add comment", err)
	}
	return s.mutate(ctx, postID, func(p *entity.Post) error {
		c := entity.Comment{
			ID:        xid.New().String(),
			UserID:    u.ID,
			Text:      text,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			CreatedAt: time.Now().UTC(),
		}
		p.Comments = append([]entity.Comment{c}, p.Comments...)
		return nil
	})
}

// RemoveComment resolves the comment by its own id and deletes that
// resolved entry. Keying the removal on the requester's user id would
// hit the wrong comment whenever the requester has written several on
// the same post, so the match index is the only thing removed.
func (s *PostService) RemoveComment(ctx context.Context, postID, commentID, requesterID string) (*entity.Post, error) {
	return s.mutate(ctx, postID, func(p *entity.Post) error {
		for i, c := range p.Comments {
			if c.ID != commentID {
				continue
			}
			if c.UserID != requesterID {
				return apperror.Forbidden("not the author of this comment")
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
		return apperror.NotFound("comment")
	})
}
