package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-organizer/internal/domain/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 10

type Service struct {
	repo   Repository
	tokens *token.Service
	now    func() time.Time
}

func NewService(repo Repository, tokens *token.Service) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

type SignupInput struct {
	Email       string
	Password    string
	Name        *string
	CountryCode string
	Phone       string
}

// AuthResult is an authenticated user plus a freshly issued token pair. The
// refresh token's session row is already persisted.
type AuthResult struct {
	User    *User
	Access  string
	Refresh string
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	existing, err := s.repo.FindUserByContact(ctx, &email, &phone)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	hashStr := string(hash)
	countryCode := strings.TrimSpace(in.CountryCode)
	user := &User{
		ID:           uuid.NewString(),
		Email:        &email,
		Phone:        &phone,
		CountryCode:  &countryCode,
		PasswordHash: &hashStr,
		Name:         in.Name,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a live refresh token for a new access token. The session
// row for the token's jti must exist and be unexpired; sessions themselves
// are never rotated or touched here.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", token.ErrInvalidToken
	}

	session, err := s.repo.GetSessionByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", token.ErrInvalidToken
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		return "", ErrSessionExpired
	}

	return s.tokens.IssueAccess(session.UserID)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*AuthResult, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	session := &Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		RefreshJTI: refresh.JTI,
		ExpiresAt:  refresh.ExpiresAt,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResult{User: user, Access: access, Refresh: refresh.Token}, nil
}
