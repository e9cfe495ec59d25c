package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	repo "github.com/devlinkhq/devlink-api/internal/domain/repository"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// AccountService performs the cascading account delete: posts, then
// profile, then user. There is no compensating rollback; a failure
// after the first completed step is reported as a partial delete so
// the caller can retry or alert instead of seeing a generic error.
type AccountService struct {
	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Posts    repo.PostRepository
	Events   *helpers.RabbitPublisher
	Logger   *logrus.Logger
}

func NewAccountService(users repo.UserRepository, profiles repo.ProfileRepository, posts repo.PostRepository, events *helpers.RabbitPublisher, logger *logrus.Logger) *AccountService {
	return &AccountService{Users: users, Profiles: profiles, Posts: posts, Events: events, Logger: logger}
}

// accountEvent is the message published to the account events queue.
type accountEvent struct {
	Type         string   `json:"type"`
	UserID       string   `json:"user_id"`
	PostsRemoved int64    `json:"posts_removed,omitempty"`
	Completed    []string `json:"completed,omitempty"`
	FailedStep   string   `json:"failed_step,omitempty"`
}

// DeleteAccount removes everything the user owns in dependency order.
// A missing profile is not an error, it just means there was nothing
// to remove at that step.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	var completed []string

	postsRemoved, err := s.Posts.DeleteByUserID(ctx, userID)
	if err != nil {
		return apperror.StoreUnavailable("delete posts", err)
	}
	completed = append(completed, "posts")

	if err := s.Profiles.DeleteByUserID(ctx, userID); err != nil {
		return s.partialFailure(ctx, userID, completed, "profile", err)
	}
	completed = append(completed, "profile")

	if err := s.Users.Delete(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return s.partialFailure(ctx, userID, completed, "user", err)
	}

	s.publish(ctx, accountEvent{Type: "account.deleted", UserID: userID, PostsRemoved: postsRemoved})
	return nil
}

func (s *AccountService) partialFailure(ctx context.Context, userID string, completed []string, step string, cause error) error {
	pd := &apperror.PartialDeleteError{Completed: completed, Step: step, Cause: cause}
	if s.Logger != nil {
		s.Logger.WithError(cause).WithFields(logrus.Fields{
			"user_id":   userID,
			"completed": completed,
			"step":      step,
		}).Error("account delete left partial state")
	}
	s.publish(ctx, accountEvent{Type: "account.delete_failed", UserID: userID, Completed: completed, FailedStep: step})
	return pd
}

// publish is best-effort: the delete outcome stands whether or not the
// event makes it onto the queue.
func (s *AccountService) publish(ctx context.Context, ev accountEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("type", ev.Type).Warn("account event publish failed")
	}
}
