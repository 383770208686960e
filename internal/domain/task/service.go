package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Title             string
	Description       *string
	Date              time.Time
	CategoryID        string
	TemplateID        *string
	Reward            *string
	Visibility        *string
	Complexity        *string
	Popularity        *string
	TimeOfDay         *string
	Repeat            *string
	AssignedMemberIDs []string
}

// CreateAndAssign persists the task, then creates one assignment row per
// member id concurrently. Assignment writes are independent, not a
// transaction: a failing write surfaces as an error while the task and any
// completed assignments remain.
func (s *Service) CreateAndAssign(ctx context.Context, creatorID string, in CreateInput) (*Task, error) {
	taskRow := Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
		TemplateID:  in.TemplateID,
		CreatedByID: creatorID,
		TimeOfDay:   in.TimeOfDay,
		Repeat:      in.Repeat,
		Reward:      in.Reward,
		Visibility:  in.Visibility,
		Complexity:  in.Complexity,
		Popularity:  in.Popularity,
	}
	if err := s.repo.CreateTask(ctx, &taskRow); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, memberID := range in.AssignedMemberIDs {
		assignment := TaskAssignment{
			ID:             uuid.NewString(),
			TaskID:         taskRow.ID,
			FamilyMemberID: memberID,
		}
		g.Go(func() error {
			return s.repo.CreateAssignment(gctx, &assignment)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("create assignments: %w", err)
	}

	full, err := s.repo.GetTaskWithRelations(ctx, taskRow.ID)
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	return full, nil
}

// ListTemplates returns templates visible to the user: global ones plus the
// user's own, optionally narrowed to one category. The caller must belong to
// a family.
func (s *Service) ListTemplates(ctx context.Context, userID string, categoryID *string) ([]TaskTemplate, error) {
	member, err := s.repo.HasMembership(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, ErrNoMembership
	}
	return s.repo.ListTemplates(ctx, userID, categoryID)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategoriesWithTemplates(ctx)
}

func (s *Service) AddCategory(ctx context.Context, name string, iconURL *string) (*Category, error) {
	name = strings.TrimSpace(name)

	existing, err := s.repo.GetCategoryByName(ctx, name)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := Category{
		ID:      uuid.NewString(),
		Name:    name,
		IconURL: iconURL,
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}
