package family

import (
	"time"

	"family-organizer/internal/domain/identity"
)

const (
	RoleFather       = "FATHER"
	RoleMother       = "MOTHER"
	RoleSon          = "SON"
	RoleDaughter     = "DAUGHTER"
	RoleGrandparents = "GRANDPARENTS"
	RoleOther        = "OTHER"
)

const DefaultFamilyName = "My Family"

type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	OwnerID   string    `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type FamilyMember struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	FamilyID  string    `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User *identity.User `gorm:"foreignKey:UserID;references:ID"`
}

type Location struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	FamilyID  string  `gorm:"type:uuid;not null;index"`
	Label     string  `gorm:"not null"`
	Address   *string `gorm:"type:text"`
	Lat       *float64
	Lng       *float64
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// MemberProfile is a membership joined with the member's public user fields.
type MemberProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	LoginCode *string   `json:"loginCode"`
	AvatarURL *string   `json:"avatarUrl"`
}
