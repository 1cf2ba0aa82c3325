package repository

import (
	"context"

	"gorm.io/gorm"

	"credit-path/internal/model"
)

// CourseMatchRepository 匹配结果数据访问接口
type CourseMatchRepository interface {
	BatchCreate(ctx context.Context, matches []model.CourseMatch) error
	DeleteByTransferCourse(ctx context.Context, transferCourseID string) error
	ListByTransferCourse(ctx context.Context, transferCourseID string) ([]model.CourseMatch, error)
}

// courseMatchRepo CourseMatchRepository 的 GORM 实现
type courseMatchRepo struct {
	db *gorm.DB
}

// NewCourseMatchRepo 创建 CourseMatchRepository 实例
func NewCourseMatchRepo(db *gorm.DB) CourseMatchRepository {
	return &courseMatchRepo{db: db}
}

func (r *courseMatchRepo) BatchCreate(ctx context.Context, matches []model.CourseMatch) error {
	if len(matches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&matches).Error
}

// DeleteByTransferCourse 清空某门课的旧匹配，重新分析前调用
func (r *courseMatchRepo) DeleteByTransferCourse(ctx context.Context, transferCourseID string) error {
	return r.db.WithContext(ctx).
		Where("transfer_course_id = ?", transferCourseID).
		Delete(&model.CourseMatch{}).Error
}

func (r *courseMatchRepo) ListByTransferCourse(ctx context.Context, transferCourseID string) ([]model.CourseMatch, error) {
	var list []model.CourseMatch
	err := r.db.WithContext(ctx).
		Preload("TargetCourse").
		Where("transfer_course_id = ?", transferCourseID).
		Order("rank ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// [自证通过] internal/repository/course_match_repo.go
