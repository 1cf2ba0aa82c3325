package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"credit-path/internal/dto"
	"credit-path/internal/model"
	"credit-path/internal/service"
	"credit-path/pkg/response"
)

// UniversityHandler 学校模块 HTTP 处理器
type UniversityHandler struct {
	universitySvc service.UniversityService
}

// NewUniversityHandler 创建 UniversityHandler
func NewUniversityHandler(universitySvc service.UniversityService) *UniversityHandler {
	return &UniversityHandler{universitySvc: universitySvc}
}

// List 学校列表
// GET /api/v1/universities
// 平台管理员可见全部，其余角色只看启用中的学校
func (h *UniversityHandler) List(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	onlyActive := true
	if v, exists := c.Get("role"); exists {
		if role, ok := v.(string); ok && model.Role(role) == model.RoleSystemAdmin {
			onlyActive = false
		}
	}

	universities, total, err := h.universitySvc.List(c.Request.Context(), &req, onlyActive)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}

	response.OKPage(c, universities, total, req.GetPage(), req.GetPageSize())
}

// Get 学校详情
// GET /api/v1/universities/:id
func (h *UniversityHandler) Get(c *gin.Context) {
	university, err := h.universitySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}

	response.OK(c, university)
}

// Create 新建学校
// POST /api/v1/universities
func (h *UniversityHandler) Create(c *gin.Context) {
	var req dto.CreateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	university, err := h.universitySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}

	response.Created(c, university)
}

// Update 更新学校
// PUT /api/v1/universities/:id
func (h *UniversityHandler) Update(c *gin.Context) {
	var req dto.UpdateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	university, err := h.universitySvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}

	response.OK(c, university)
}

func (h *UniversityHandler) handleUniversityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUniversityNotFound):
		response.NotFound(c, 13001, "学校不存在")
	case errors.Is(err, service.ErrDomainTaken):
		response.Error(c, http.StatusConflict, 13002, "该域名已被其他学校注册")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/university_handler.go
