package task

import "context"

type Repository interface {
	CreateTask(ctx context.Context, task *Task) error
	CreateAssignment(ctx context.Context, assignment *TaskAssignment) error
	GetTaskWithRelations(ctx context.Context, taskID string) (*Task, error)
	HasMembership(ctx context.Context, userID string) (bool, error)
	ListTemplates(ctx context.Context, userID string, categoryID *string) ([]TaskTemplate, error)
	ListCategoriesWithTemplates(ctx context.Context) ([]Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
}
