package identity

import (
	"context"
	"errors"

	identitydomain "family-organizer/internal/domain/identity"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) FindUserByContact(ctx context.Context, email, phone *string) (*identitydomain.User, error) {
	query := r.db.WithContext(ctx)
	switch {
	case email != nil && phone != nil:
		query = query.Where("email = ? OR phone = ?", *email, *phone)
	case email != nil:
		query = query.Where("email = ?", *email)
	case phone != nil:
		query = query.Where("phone = ?", *phone)
	default:
		return nil, identitydomain.ErrUserNotFound
	}

	var user identitydomain.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) CreateSession(ctx context.Context, session *identitydomain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *PostgresRepository) GetSessionByJTI(ctx context.Context, jti string) (*identitydomain.Session, error) {
	var session identitydomain.Session
	if err := r.db.WithContext(ctx).Where("refresh_jti = ?", jti).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}
