package auth

import "context"

// User is the verified caller. Activity records are keyed by Email.
type User struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type userKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the caller, or false for guests.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok && u != nil
}

// Email returns the caller's email, or "" for guests.
func Email(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.Email
	}
	return ""
}
