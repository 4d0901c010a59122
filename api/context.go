package api

import (
	"context"
	"errors"
)

type keyType string

const (
	userKey      keyType = "user"
	requestIDKey keyType = "requestID"
)

// authenticatedUser is what the admin middleware stores for handlers.
type authenticatedUser struct {
	ID       int64
	Username string
}

func ctxWithUser(ctx context.Context, user authenticatedUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func ctxGetUser(ctx context.Context) (authenticatedUser, error) {
	user, ok := ctx.Value(userKey).(authenticatedUser)
	if !ok {
		return authenticatedUser{}, errors.New("user not found in context")
	}
	return user, nil
}

func ctxWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ctxGetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
