package api

import (
	"context"
	"errors"

	"github.com/taskbridge-app/taskbridge/backend/services"
)

type keyType string

const (
	identityKey keyType = "identity"
)

// ctxWithIdentity adds the resolved requester identity to the context
func ctxWithIdentity(ctx context.Context, identity services.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ctxGetIdentity retrieves the requester identity from the context
func ctxGetIdentity(ctx context.Context) (services.Identity, error) {
	ctxValue := ctx.Value(identityKey)
	if ctxValue == nil {
		return services.Identity{}, errors.New("identity not found in context")
	}
	identity, ok := ctxValue.(services.Identity)
	if !ok {
		return services.Identity{}, errors.New("context value is not of type `services.Identity`")
	}
	return identity, nil
}
