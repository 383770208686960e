package family

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"family-organizer/internal/domain/identity"
)

type fakeFamilyRepo struct {
	users     map[string]*identity.User
	families  map[string]*Family
	members   map[string]*FamilyMember
	locations []Location

	failLocations bool
	inTx          bool
	txFailed      bool
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{
		users:    make(map[string]*identity.User),
		families: make(map[string]*Family),
		members:  make(map[string]*FamilyMember),
	}
}

// Transaction runs fn against a copy and only keeps the copy's state on
// success, mimicking rollback semantics.
func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	scratch := &fakeFamilyRepo{
		users:         make(map[string]*identity.User, len(r.users)),
		families:      make(map[string]*Family, len(r.families)),
		members:       make(map[string]*FamilyMember, len(r.members)),
		locations:     append([]Location(nil), r.locations...),
		failLocations: r.failLocations,
		inTx:          true,
	}
	for id, u := range r.users {
		copied := *u
		scratch.users[id] = &copied
	}
	for id, f := range r.families {
		copied := *f
		scratch.families[id] = &copied
	}
	for id, m := range r.members {
		copied := *m
		scratch.members[id] = &copied
	}

	if err := fn(scratch); err != nil {
		r.txFailed = true
		return err
	}

	r.users = scratch.users
	r.families = scratch.families
	r.members = scratch.members
	r.locations = scratch.locations
	return nil
}

func (r *fakeFamilyRepo) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	family, ok := r.families[familyID]
	if !ok {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

func (r *fakeFamilyRepo) CreateFamily(ctx context.Context, family *Family) error {
	if family.CreatedAt.IsZero() {
		family.CreatedAt = time.Now().UTC()
	}
	r.families[family.ID] = family
	return nil
}

func (r *fakeFamilyRepo) AddMember(ctx context.Context, member *FamilyMember) error {
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}
	r.members[member.ID] = member
	return nil
}

func (r *fakeFamilyRepo) GetMembership(ctx context.Context, familyID, userID string) (*FamilyMember, error) {
	for _, member := range r.members {
		if member.FamilyID == familyID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, ErrNotFamilyMember
}

func (r *fakeFamilyRepo) ListMemberProfiles(ctx context.Context, familyID string) ([]MemberProfile, error) {
	result := make([]MemberProfile, 0)
	for _, member := range r.members {
		if member.FamilyID != familyID {
			continue
		}
		profile := MemberProfile{
			ID:        member.ID,
			UserID:    member.UserID,
			Role:      member.Role,
			CreatedAt: member.CreatedAt,
		}
		if user, ok := r.users[member.UserID]; ok {
			profile.Name = user.Name
			profile.Email = user.Email
			profile.Phone = user.Phone
			profile.LoginCode = user.LoginCode
			profile.AvatarURL = user.AvatarURL
		}
		result = append(result, profile)
	}
	return result, nil
}

func (r *fakeFamilyRepo) CreateLocations(ctx context.Context, locations []Location) error {
	if r.failLocations {
		return errors.New("location insert failed")
	}
	r.locations = append(r.locations, locations...)
	return nil
}

func (r *fakeFamilyRepo) UpdateUserProfile(ctx context.Context, userID string, patch identity.ProfilePatch) (*identity.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	if patch.Name != nil {
		user.Name = patch.Name
	}
	if patch.Gender != nil {
		user.Gender = patch.Gender
	}
	if patch.BirthDate != nil {
		user.BirthDate = patch.BirthDate
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = patch.AvatarURL
	}
	return user, nil
}

func (r *fakeFamilyRepo) FindUserByContact(ctx context.Context, email, phone *string) (*identity.User, error) {
	if email == nil && phone == nil {
		return nil, identity.ErrUserNotFound
	}
	for _, user := range r.users {
		if email != nil && user.Email != nil && *user.Email == *email {
			return user, nil
		}
		if phone != nil && user.Phone != nil && *user.Phone == *phone {
			return user, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (r *fakeFamilyRepo) CreateUser(ctx context.Context, user *identity.User) error {
	r.users[user.ID] = user
	return nil
}

func strPtr(s string) *string { return &s }

func TestSetupCreatesEverything(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.users["user-1"] = &identity.User{ID: "user-1"}
	svc := NewService(repo, repo)

	user, fam, err := svc.Setup(context.Background(), "user-1", SetupInput{
		Patch:      identity.ProfilePatch{Name: strPtr("Alice")},
		FamilyName: "The Smiths",
		Role:       RoleMother,
		Locations: []LocationInput{
			{Label: "Home", Address: strPtr("1 Main St")},
			{Label: "School"},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name == nil || *user.Name != "Alice" {
		t.Fatalf("expected patched name, got %+v", user.Name)
	}
	if fam.Name != "The Smiths" || fam.OwnerID != "user-1" {
		t.Fatalf("unexpected family %+v", fam)
	}
	membership, err := repo.GetMembership(context.Background(), fam.ID, "user-1")
	if err != nil {
		t.Fatalf("expected owner membership: %v", err)
	}
	if membership.Role != RoleMother {
		t.Fatalf("expected role MOTHER, got %q", membership.Role)
	}
	if len(repo.locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(repo.locations))
	}
}

func TestSetupDefaults(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.users["user-1"] = &identity.User{ID: "user-1"}
	svc := NewService(repo, repo)

	_, fam, err := svc.Setup(context.Background(), "user-1", SetupInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fam.Name != DefaultFamilyName {
		t.Fatalf("expected default family name, got %q", fam.Name)
	}
	membership, err := repo.GetMembership(context.Background(), fam.ID, "user-1")
	if err != nil {
		t.Fatalf("expected membership: %v", err)
	}
	if membership.Role != RoleOther {
		t.Fatalf("expected default role OTHER, got %q", membership.Role)
	}
}

func TestSetupRollsBackOnLocationFailure(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.users["user-1"] = &identity.User{ID: "user-1"}
	repo.failLocations = true
	svc := NewService(repo, repo)

	_, _, err := svc.Setup(context.Background(), "user-1", SetupInput{
		Patch:     identity.ProfilePatch{Name: strPtr("Alice")},
		Locations: []LocationInput{{Label: "Home"}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.families) != 0 {
		t.Fatalf("expected no family after rollback, got %d", len(repo.families))
	}
	if len(repo.members) != 0 {
		t.Fatalf("expected no membership after rollback, got %d", len(repo.members))
	}
	if repo.users["user-1"].Name != nil {
		t.Fatalf("expected profile patch rolled back, got %q", *repo.users["user-1"].Name)
	}
}

func setupFamilyWithCaller(t *testing.T, repo *fakeFamilyRepo) string {
	t.Helper()
	repo.users["caller"] = &identity.User{ID: "caller"}
	repo.families["fam-1"] = &Family{ID: "fam-1", Name: "Fam", OwnerID: "caller"}
	repo.members["mem-caller"] = &FamilyMember{ID: "mem-caller", UserID: "caller", FamilyID: "fam-1", Role: RoleFather}
	return "fam-1"
}

func TestAddMemberGeneratesLoginCodeWithoutContacts(t *testing.T) {
	repo := newFakeFamilyRepo()
	familyID := setupFamilyWithCaller(t, repo)
	svc := NewService(repo, repo)

	result, err := svc.AddMember(context.Background(), "caller", familyID, AddMemberInput{
		Name: "Kiddo",
		Role: RoleSon,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.LoginCode == nil {
		t.Fatalf("expected login code")
	}
	if len(*result.LoginCode) != 6 {
		t.Fatalf("expected 6-char code, got %q", *result.LoginCode)
	}
	if *result.LoginCode != strings.ToUpper(*result.LoginCode) {
		t.Fatalf("expected uppercase code, got %q", *result.LoginCode)
	}
}

func TestAddMemberAttachesExistingUser(t *testing.T) {
	repo := newFakeFamilyRepo()
	familyID := setupFamilyWithCaller(t, repo)
	repo.users["existing"] = &identity.User{ID: "existing", Email: strPtr("gran@b.com")}
	svc := NewService(repo, repo)

	result, err := svc.AddMember(context.Background(), "caller", familyID, AddMemberInput{
		Name:  "Gran",
		Role:  RoleGrandparents,
		Email: strPtr("gran@b.com"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.UserID != "existing" {
		t.Fatalf("expected existing user attached, got %s", result.UserID)
	}
	if result.LoginCode != nil {
		t.Fatalf("expected no login code for existing user")
	}
	if len(repo.users) != 2 {
		t.Fatalf("expected no duplicate user, got %d users", len(repo.users))
	}
}

func TestAddMemberFamilyNotFound(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo, repo)

	_, err := svc.AddMember(context.Background(), "caller", "missing", AddMemberInput{Name: "X", Role: RoleOther})
	if !errors.Is(err, ErrFamilyNotFound) {
		t.Fatalf("expected ErrFamilyNotFound, got %v", err)
	}
}

func TestAddMemberCallerMustBelong(t *testing.T) {
	repo := newFakeFamilyRepo()
	familyID := setupFamilyWithCaller(t, repo)
	svc := NewService(repo, repo)

	_, err := svc.AddMember(context.Background(), "stranger", familyID, AddMemberInput{Name: "X", Role: RoleOther})
	if !errors.Is(err, ErrNotFamilyMember) {
		t.Fatalf("expected ErrNotFamilyMember, got %v", err)
	}
}

func TestListMembersJoinsUsers(t *testing.T) {
	repo := newFakeFamilyRepo()
	familyID := setupFamilyWithCaller(t, repo)
	repo.users["u2"] = &identity.User{ID: "u2", Name: strPtr("Kiddo"), LoginCode: strPtr("AB12CD")}
	repo.members["mem-2"] = &FamilyMember{ID: "mem-2", UserID: "u2", FamilyID: familyID, Role: RoleSon}
	svc := NewService(repo, repo)

	members, err := svc.ListMembers(context.Background(), "caller", familyID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	var kid *MemberProfile
	for i := range members {
		if members[i].UserID == "u2" {
			kid = &members[i]
		}
	}
	if kid == nil {
		t.Fatalf("expected u2 in member list")
	}
	if kid.ID != "mem-2" {
		t.Fatalf("expected membership id mem-2, got %s", kid.ID)
	}
	if kid.LoginCode == nil || *kid.LoginCode != "AB12CD" {
		t.Fatalf("expected login code joined, got %+v", kid.LoginCode)
	}
}

func TestListMembersCallerMustBelong(t *testing.T) {
	repo := newFakeFamilyRepo()
	familyID := setupFamilyWithCaller(t, repo)
	svc := NewService(repo, repo)

	_, err := svc.ListMembers(context.Background(), "stranger", familyID)
	if !errors.Is(err, ErrNotFamilyMember) {
		t.Fatalf("expected ErrNotFamilyMember, got %v", err)
	}
}
