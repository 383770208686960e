package task

import "errors"

var (
	ErrNoMembership     = errors.New("caller has no family membership")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTaskNotFound     = errors.New("task not found")
)
