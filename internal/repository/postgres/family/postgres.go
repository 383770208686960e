package family

import (
	"context"
	"errors"
	"time"

	familydomain "family-organizer/internal/domain/family"
	identitydomain "family-organizer/internal/domain/identity"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).First(&family, "id = ?", familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.FamilyMember) error {
	return r.db.WithContext(ctx).Omit("User").Create(member).Error
}

func (r *PostgresRepository) GetMembership(ctx context.Context, familyID, userID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	err := r.db.WithContext(ctx).
		Where("family_id = ? AND user_id = ?", familyID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrNotFamilyMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMemberProfiles(ctx context.Context, familyID string) ([]familydomain.MemberProfile, error) {
	var rows []familydomain.MemberProfile
	err := r.db.WithContext(ctx).
		Table("family_members").
		Select(`family_members.id, family_members.user_id, family_members.role, family_members.created_at,
			users.name, users.email, users.phone, users.login_code, users.avatar_url`).
		Joins("join users on users.id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Order("family_members.created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) CreateLocations(ctx context.Context, locations []familydomain.Location) error {
	if len(locations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&locations).Error
}

func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, userID string, patch identitydomain.ProfilePatch) (*identitydomain.User, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Gender != nil {
		updates["gender"] = *patch.Gender
	}
	if patch.BirthDate != nil {
		updates["birth_date"] = *patch.BirthDate
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}

	result := r.db.WithContext(ctx).
		Model(&identitydomain.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, identitydomain.ErrUserNotFound
	}

	var user identitydomain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
