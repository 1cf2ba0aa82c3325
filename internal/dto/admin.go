package dto

// ── 管理统计 DTO ──

// AnalyticsResponse 平台运行统计响应
type AnalyticsResponse struct {
	TotalUsers          int64            `json:"total_users"`
	UsersByRole         map[string]int64 `json:"users_by_role"`
	TotalUniversities   int64            `json:"total_universities"`
	TotalTargetCourses  int64            `json:"total_target_courses"`
	TotalSubmissions    int64            `json:"total_submissions"`
	SubmissionsByStatus map[string]int64 `json:"submissions_by_status"`
	TotalEvaluations    int64            `json:"total_evaluations"`
	ApprovalRate        float64          `json:"approval_rate"` // approved / 终局裁定总数，无终局时为 0
	CreditsAwarded      float64          `json:"credits_awarded"`
}

// [自证通过] internal/dto/admin.go
