package app

import (
	"context"

	"github.com/stylehaus/closet/pkg/httperror"
)

// ownerFromContext reads the authenticated owner id the auth middleware
// injected. Every pipeline operation takes its identity from here, never
// from ambient state.
func ownerFromContext(ctx context.Context) (string, *httperror.Error) {
	ownerID, ok := ctx.Value("UserID").(string)
	if !ok || ownerID == "" {
		return "", httperror.Unauthorized(
			"auth.unauthenticated",
			"Authentication required",
			nil,
		)
	}
	return ownerID, nil
}
