package task

import (
	"context"
	"errors"

	familydomain "family-organizer/internal/domain/family"
	taskdomain "family-organizer/internal/domain/task"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTask(ctx context.Context, task *taskdomain.Task) error {
	return r.db.WithContext(ctx).
		Omit("Category", "Template", "Assignments").
		Create(task).Error
}

func (r *PostgresRepository) CreateAssignment(ctx context.Context, assignment *taskdomain.TaskAssignment) error {
	return r.db.WithContext(ctx).Omit("Member").Create(assignment).Error
}

func (r *PostgresRepository) GetTaskWithRelations(ctx context.Context, taskID string) (*taskdomain.Task, error) {
	var task taskdomain.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Template").
		Preload("Assignments").
		Preload("Assignments.Member").
		Preload("Assignments.Member.User").
		First(&task, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskdomain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) HasMembership(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&familydomain.FamilyMember{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListTemplates(ctx context.Context, userID string, categoryID *string) ([]taskdomain.TaskTemplate, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("created_by_id IS NULL OR created_by_id = ?", userID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var templates []taskdomain.TaskTemplate
	if err := query.Order("created_at asc").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *PostgresRepository) ListCategoriesWithTemplates(ctx context.Context) ([]taskdomain.Category, error) {
	var categories []taskdomain.Category
	err := r.db.WithContext(ctx).
		Preload("Templates").
		Order("created_at asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategoryByName(ctx context.Context, name string) (*taskdomain.Category, error) {
	var category taskdomain.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *taskdomain.Category) error {
	return r.db.WithContext(ctx).Omit("Templates").Create(category).Error
}
