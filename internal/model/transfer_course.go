package model

// TransferCourse 申请中待转的原校课程 — 对应 transfer_courses
// 随所属 Submission 级联删除
type TransferCourse struct {
	TransferCourseID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transfer_course_id"`
	SubmissionID         string  `gorm:"type:uuid;not null;index"                       json:"submission_id"`
	CourseCode           string  `gorm:"type:varchar(50)"                               json:"course_code,omitempty"`
	CourseName           string  `gorm:"type:varchar(255);not null"                     json:"course_name"`
	Credits              float64 `json:"credits"`
	Grade                string  `gorm:"type:varchar(10)"                               json:"grade,omitempty"`
	SourceUniversityName string  `gorm:"type:varchar(255)"                              json:"source_university_name,omitempty"`
	SyllabusFilePath     string  `gorm:"type:varchar(500)"                              json:"syllabus_file_path,omitempty"`
	AdditionalNotes      string  `gorm:"type:text"                                      json:"additional_notes,omitempty"`
	BaseModel

	// 关联
	Matches    []CourseMatch `gorm:"foreignKey:TransferCourseID;constraint:OnDelete:CASCADE" json:"matches,omitempty"`
	Evaluation *Evaluation   `gorm:"foreignKey:TransferCourseID"                             json:"evaluation,omitempty"`
}

// TableName 指定表名
func (TransferCourse) TableName() string { return "transfer_courses" }

// [自证通过] internal/model/transfer_course.go
