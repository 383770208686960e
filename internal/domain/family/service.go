package family

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"family-organizer/internal/domain/identity"
	"github.com/google/uuid"
)

const loginCodeLength = 6

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

type LocationInput struct {
	Label   string
	Address *string
	Lat     *float64
	Lng     *float64
}

type SetupInput struct {
	Patch      identity.ProfilePatch
	FamilyName string
	Role       string
	Locations  []LocationInput
}

// Setup completes a user's registration: profile patch, family creation,
// owner membership, and location inserts run in one transaction. Nothing
// persists if any step fails.
func (s *Service) Setup(ctx context.Context, userID string, in SetupInput) (*identity.User, *Family, error) {
	familyName := strings.TrimSpace(in.FamilyName)
	if familyName == "" {
		familyName = DefaultFamilyName
	}
	role := in.Role
	if role == "" {
		role = RoleOther
	}

	var (
		user   *identity.User
		result Family
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		updated, err := tx.UpdateUserProfile(ctx, userID, in.Patch)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		user = updated

		familyRow := Family{
			ID:      uuid.NewString(),
			Name:    familyName,
			OwnerID: userID,
		}
		if err := tx.CreateFamily(ctx, &familyRow); err != nil {
			return fmt.Errorf("create family: %w", err)
		}

		member := FamilyMember{
			ID:       uuid.NewString(),
			UserID:   userID,
			FamilyID: familyRow.ID,
			Role:     role,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return fmt.Errorf("add owner membership: %w", err)
		}

		if len(in.Locations) > 0 {
			locations := make([]Location, 0, len(in.Locations))
			for _, loc := range in.Locations {
				locations = append(locations, Location{
					ID:       uuid.NewString(),
					FamilyID: familyRow.ID,
					Label:    loc.Label,
					Address:  loc.Address,
					Lat:      loc.Lat,
					Lng:      loc.Lng,
				})
			}
			if err := tx.CreateLocations(ctx, locations); err != nil {
				return fmt.Errorf("create locations: %w", err)
			}
		}

		result = familyRow
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, &result, nil
}

type AddMemberInput struct {
	Name        string
	Role        string
	Email       *string
	Phone       *string
	CountryCode *string
	AvatarURL   *string
}

type AddMemberResult struct {
	UserID         string
	FamilyMemberID string
	LoginCode      *string
}

// AddMember attaches a (found or freshly created) user to the family. A user
// created without email and phone gets a login code as its only credential.
func (s *Service) AddMember(ctx context.Context, callerID, familyID string, in AddMemberInput) (*AddMemberResult, error) {
	if _, err := s.repo.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, familyID, callerID); err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByContact(ctx, in.Email, in.Phone)
	if err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user == nil {
		name := strings.TrimSpace(in.Name)
		user = &identity.User{
			ID:          uuid.NewString(),
			Name:        &name,
			Email:       in.Email,
			Phone:       in.Phone,
			CountryCode: in.CountryCode,
			AvatarURL:   in.AvatarURL,
		}
		if in.Email == nil && in.Phone == nil {
			code, err := generateLoginCode(loginCodeLength)
			if err != nil {
				return nil, fmt.Errorf("generate login code: %w", err)
			}
			user.LoginCode = &code
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	member := FamilyMember{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		FamilyID: familyID,
		Role:     in.Role,
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	return &AddMemberResult{
		UserID:         user.ID,
		FamilyMemberID: member.ID,
		LoginCode:      user.LoginCode,
	}, nil
}

func (s *Service) ListMembers(ctx context.Context, callerID, familyID string) ([]MemberProfile, error) {
	if _, err := s.repo.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, familyID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberProfiles(ctx, familyID)
}

func (s *Service) requireMembership(ctx context.Context, familyID, userID string) error {
	_, err := s.repo.GetMembership(ctx, familyID, userID)
	if errors.Is(err, ErrNotFamilyMember) {
		return ErrNotFamilyMember
	}
	return err
}

func generateLoginCode(length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
