package middleware

import "context"

type userKey struct{}

// UserCtx is the authenticated caller placed in the request context.
type UserCtx struct {
	ID    string
	Email string
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFrom(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}
