package application

import (
	"errors"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/internal/domain/repository"
)

// ErrInvalidCredentials covers every login failure: unknown email and
// wrong password are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = &apperror.Error{
	Err:     apperror.ErrInvalidCredential,
	Message: "invalid credentials",
}

// casRetries bounds how often a read-modify-write is replayed when a
// concurrent writer bumps the aggregate version underneath it.
const casRetries = 3

// notFoundOr maps a repository error to the application taxonomy:
// a clean miss becomes NotFound for the named resource, anything else
// means the store failed and the outcome is unknown.
func notFoundOr(resource, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(resource)
	}
	return apperror.StoreUnavailable(op, err)
}
