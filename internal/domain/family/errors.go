package family

import "errors"

var (
	ErrFamilyNotFound  = errors.New("family not found")
	ErrNotFamilyMember = errors.New("caller is not a member of this family")
)
