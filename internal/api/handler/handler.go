package handler

import "credit-path/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	University *UniversityHandler
	Course     *CourseHandler
	Submission *SubmissionHandler
	Matching   *MatchingHandler
	Evaluation *EvaluationHandler
	Report     *ReportHandler
	Admin      *AdminHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		University: NewUniversityHandler(svc.University),
		Course:     NewCourseHandler(svc.Catalog),
		Submission: NewSubmissionHandler(svc.Submission),
		Matching:   NewMatchingHandler(svc.Matching),
		Evaluation: NewEvaluationHandler(svc.Evaluation),
		Report:     NewReportHandler(svc.Report),
		Admin:      NewAdminHandler(svc.Analytics, svc.Submission),
	}
}

// [自证通过] internal/api/handler/handler.go
