package dto

// ── 匹配分析 DTO ──

// CourseMatchResponse 单条候选匹配响应
type CourseMatchResponse struct {
	ID              string                `json:"id"`
	TargetCourse    *TargetCourseResponse `json:"target_course,omitempty"`
	SimilarityScore float64               `json:"similarity_score"`
	Explanation     string                `json:"explanation,omitempty"`
	KeySimilarities []string              `json:"key_similarities,omitempty"`
	KeyDifferences  []string              `json:"key_differences,omitempty"`
	Recommendation  string                `json:"recommendation,omitempty"`
	Rank            int                   `json:"rank"`
}

// CourseMatchGroup 按原校课程分组的匹配结果
type CourseMatchGroup struct {
	TransferCourseID string                `json:"transfer_course_id"`
	CourseCode       string                `json:"course_code"`
	CourseName       string                `json:"course_name"`
	Matches          []CourseMatchResponse `json:"matches"`
}

// MatchResultsResponse 整单匹配结果响应
type MatchResultsResponse struct {
	SubmissionID string             `json:"submission_id"`
	Status       string             `json:"status"`
	Courses      []CourseMatchGroup `json:"courses"`
}

// AnalyzeRequest 发起匹配分析请求
type AnalyzeRequest struct {
	SubmissionID string `json:"submission_id" binding:"required,uuid"`
}

// AnalyzeResponse 触发分析的即时回执
type AnalyzeResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	CourseCount  int    `json:"course_count"`
}

// [自证通过] internal/dto/matching.go
