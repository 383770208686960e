package identity

import "time"

// User is the identity record. Email and phone are each unique when set; a
// user with neither carries a login code as its alternate credential.
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        *string   `gorm:"type:text;uniqueIndex"`
	Phone        *string   `gorm:"type:text;uniqueIndex"`
	CountryCode  *string   `gorm:"type:text"`
	PasswordHash *string   `gorm:"type:text"`
	Name         *string   `gorm:"type:text"`
	Gender       *string   `gorm:"type:varchar(16)"`
	BirthDate    *time.Time
	AvatarURL    *string `gorm:"type:text"`
	LoginCode    *string `gorm:"type:varchar(6)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Session tracks one issued refresh token by its jti. Rows are write-once;
// a session is dead once ExpiresAt passes.
type Session struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	UserID     string    `gorm:"type:uuid;not null;index"`
	RefreshJTI string    `gorm:"type:uuid;not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// ProfilePatch carries the updatable profile attributes; nil means "leave
// unchanged".
type ProfilePatch struct {
	Name      *string
	Gender    *string
	BirthDate *time.Time
	AvatarURL *string
}
