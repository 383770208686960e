package identity

import "context"

type Repository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByContact(ctx context.Context, email, phone *string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByJTI(ctx context.Context, jti string) (*Session, error)
}
