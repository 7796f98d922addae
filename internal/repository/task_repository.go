package repository

import (
	"context"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskRepository defines task persistence operations. Every mutation is
// ownership-scoped: the WHERE clause carries both the task id and the owner
// id in a single statement, so "not yours" and "does not exist" are
// indistinguishable and atomic with the mutation.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	FindOwned(ctx context.Context, id, userID uint) (*model.Task, error)
	UpdateOwned(ctx context.Context, id, userID uint, title, description string) (int64, error)
	DeleteOwned(ctx context.Context, id, userID uint) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindOwned(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateOwned updates title and description in one ownership-scoped
// statement and reports how many rows were affected.
func (r *taskRepository) UpdateOwned(ctx context.Context, id, userID uint, title, description string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"title":       title,
			"description": description,
		})
	return res.RowsAffected, res.Error
}

// DeleteOwned deletes in one ownership-scoped statement and reports how many
// rows were affected.
func (r *taskRepository) DeleteOwned(ctx context.Context, id, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{})
	return res.RowsAffected, res.Error
}
