package repository

import (
	"context"
	"time"

	"tasklink/internal/models"
	"tasklink/internal/observability"

	"gorm.io/gorm"
)

// StudentRepository defines persistence operations for student profiles.
type StudentRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateProfile(ctx context.Context, userID uint, patch *models.Student, columns []string) error
}

type studentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewStudentRepository returns a new StudentRepository implementation.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db, log: observability.NewRepoLogger("students")}
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	var student models.Student
	if err := readDB(r.db).WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email")
		}).
		Where("user_id = ?", userID).
		First(&student).Error; err != nil {
		return nil, notFoundOrInternal(err, "Student profile", userID)
	}
	student.AttachEmail()
	return &student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(student).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Student profile already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"student_id": student.ID, "user_id": student.UserID})
	return nil
}

func (r *studentRepository) UpdateProfile(ctx context.Context, userID uint, patch *models.Student, columns []string) error {
	selected := make([]string, 0, len(columns)+1)
	selected = append(selected, columns...)
	selected = append(selected, "updated_at")
	patch.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("user_id = ?", userID).
		Select(selected).
		Omit("user_id").
		Updates(patch)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Student profile", userID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"user_id": userID, "columns": columns})
	return nil
}
