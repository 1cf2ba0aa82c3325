package dto

// ── 转学分申请 DTO ──

// CreateSubmissionRequest 创建申请（draft）请求
type CreateSubmissionRequest struct {
	TargetUniversityID string `json:"target_university_id" binding:"required,uuid"`
	Notes              string `json:"notes"                binding:"omitempty,max=2000"`
}

// AddTransferCourseRequest 向申请添加原校课程请求
type AddTransferCourseRequest struct {
	CourseCode           string  `json:"course_code"            binding:"omitempty,max=50"`
	CourseName           string  `json:"course_name"            binding:"required,min=1,max=255"`
	Credits              float64 `json:"credits"                binding:"required,gt=0,lte=30"`
	Grade                string  `json:"grade"                  binding:"omitempty,max=10"`
	SourceUniversityName string  `json:"source_university_name" binding:"omitempty,max=255"`
	AdditionalNotes      string  `json:"additional_notes"       binding:"omitempty,max=5000"`
}

// ListSubmissionsRequest 申请列表查询
type ListSubmissionsRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty"`
}

// AdminListSubmissionsRequest 管理侧申请列表查询
// university_admin 固定限定本校，UniversityID 仅 system_admin 生效
type AdminListSubmissionsRequest struct {
	PaginationRequest
	Status       string `form:"status"        binding:"omitempty"`
	UniversityID string `form:"university_id" binding:"omitempty,uuid"`
}

// TransferCourseResponse 申请内原校课程响应
type TransferCourseResponse struct {
	ID                   string              `json:"id"`
	CourseCode           string              `json:"course_code,omitempty"`
	CourseName           string              `json:"course_name"`
	Credits              float64             `json:"credits"`
	Grade                string              `json:"grade,omitempty"`
	SourceUniversityName string              `json:"source_university_name,omitempty"`
	AdditionalNotes      string              `json:"additional_notes,omitempty"`
	HasSyllabus          bool                `json:"has_syllabus"`
	Evaluation           *EvaluationResponse `json:"evaluation,omitempty"`
}

// SubmissionResponse 申请详情响应
type SubmissionResponse struct {
	ID               string                   `json:"id"`
	StudentID        string                   `json:"student_id"`
	TargetUniversity *UniversityBrief         `json:"target_university,omitempty"`
	Status           string                   `json:"status"`
	HasTranscript    bool                     `json:"has_transcript"`
	Notes            string                   `json:"notes,omitempty"`
	TransferCourses  []TransferCourseResponse `json:"transfer_courses"`
	CreatedAt        string                   `json:"created_at"`
	UpdatedAt        string                   `json:"updated_at"`
}

// SubmissionStatusResponse 轻量状态查询响应（分析轮询用）
type SubmissionStatusResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	CourseCount int    `json:"course_count"`
	UpdatedAt   string `json:"updated_at"`
}

// [自证通过] internal/dto/submission.go
