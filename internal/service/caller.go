package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/service/auth"
)

// callerID returns the authenticated user on ctx, or ErrUnauthenticated.
func callerID(ctx context.Context) (uuid.UUID, error) {
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

// checkOwner returns ErrNotOwned unless owner is the caller.
func checkOwner(caller, owner uuid.UUID) error {
	if caller != owner {
		return ErrNotOwned
	}
	return nil
}
