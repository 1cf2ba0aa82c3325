package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"credit-path/internal/dto"
	"credit-path/internal/service"
	"credit-path/pkg/response"
)

// SubmissionHandler 转学分申请模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Create 创建申请（draft）
// POST /api/v1/students/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submission, err := h.submissionSvc.Create(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.Created(c, submission)
}

// List 我的申请列表
// GET /api/v1/students/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submissions, total, err := h.submissionSvc.List(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OKPage(c, submissions, total, req.GetPage(), req.GetPageSize())
}

// Get 申请详情（学生本人 / 目标学校评审相关角色 / 平台管理员）
// GET /api/v1/students/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// Status 申请状态查询（轻量轮询接口）
// GET /api/v1/students/submissions/:id/status
func (h *SubmissionHandler) Status(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	status, err := h.submissionSvc.Status(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, status)
}

// AddCourse 添加原校课程
// POST /api/v1/students/submissions/:id/courses
func (h *SubmissionHandler) AddCourse(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddTransferCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.submissionSvc.AddCourse(c.Request.Context(), studentID, c.Param("id"), &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.Created(c, course)
}

// RemoveCourse 移除原校课程
// DELETE /api/v1/students/submissions/:id/courses/:courseId
func (h *SubmissionHandler) RemoveCourse(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	err := h.submissionSvc.RemoveCourse(c.Request.Context(), studentID, c.Param("id"), c.Param("courseId"))
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, nil)
}

// UploadTranscript 上传成绩单（PDF），首次上传使 draft 自动进入 pending
// POST /api/v1/students/submissions/:id/transcript
func (h *SubmissionHandler) UploadTranscript(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少 file 字段")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	submission, err := h.submissionSvc.UploadTranscript(c.Request.Context(), studentID, c.Param("id"), fileHeader.Filename, f)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// UploadSyllabus 为某门课程上传教学大纲（PDF / DOC / DOCX）
// POST /api/v1/students/submissions/:id/courses/:courseId/syllabus
func (h *SubmissionHandler) UploadSyllabus(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少 file 字段")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	course, err := h.submissionSvc.UploadSyllabus(
		c.Request.Context(), studentID, c.Param("id"), c.Param("courseId"), fileHeader.Filename, f)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, course)
}

// Submit 提交申请进入评审流程
// POST /api/v1/students/submissions/:id/submit
func (h *SubmissionHandler) Submit(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.SubmitForReview(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 15001, "申请不存在")
	case errors.Is(err, service.ErrNotSubmissionOwner):
		response.Forbidden(c, 15002, "无权访问他人的申请")
	case errors.Is(err, service.ErrSubmissionLocked):
		response.BadRequest(c, 15003, "申请当前状态不允许修改课程")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 15004, "申请状态不允许该操作")
	case errors.Is(err, service.ErrNoCourses):
		response.BadRequest(c, 15005, "申请至少需要一门课程才能提交")
	case errors.Is(err, service.ErrInvalidFileType):
		response.BadRequest(c, 15006, "文件类型不支持")
	case errors.Is(err, service.ErrTransferCourseNotFound):
		response.NotFound(c, 15007, "转学课程不存在")
	case errors.Is(err, service.ErrInvalidStatusFilter):
		response.BadRequest(c, 15008, "状态筛选值不合法")
	case errors.Is(err, service.ErrUniversityNotFound):
		response.BadRequest(c, 15009, "目标学校不存在或未启用")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/submission_handler.go
