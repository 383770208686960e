package family

import (
	"context"

	"family-organizer/internal/domain/identity"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	CreateFamily(ctx context.Context, family *Family) error
	AddMember(ctx context.Context, member *FamilyMember) error
	GetMembership(ctx context.Context, familyID, userID string) (*FamilyMember, error)
	ListMemberProfiles(ctx context.Context, familyID string) ([]MemberProfile, error)
	CreateLocations(ctx context.Context, locations []Location) error
	// UpdateUserProfile applies the patch to the user row and returns the
	// updated user. Lives here rather than on the identity repository so the
	// profile-completion transaction covers it.
	UpdateUserProfile(ctx context.Context, userID string, patch identity.ProfilePatch) (*identity.User, error)
}

// UserDirectory is the slice of the identity store AddMember needs to attach
// memberships to existing users or mint passwordless ones.
type UserDirectory interface {
	FindUserByContact(ctx context.Context, email, phone *string) (*identity.User, error)
	CreateUser(ctx context.Context, user *identity.User) error
}
