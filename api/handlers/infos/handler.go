package infos

import (
	"net/http"

	"backend/internal/catalog"

	"github.com/gin-gonic/gin"
)

// Handler 应用信息 Handler
type Handler struct {
	catalog *catalog.Catalog
	appName string
}

// NewHandler 创建应用信息 Handler
func NewHandler(cat *catalog.Catalog, appName string) *Handler {
	return &Handler{
		catalog: cat,
		appName: appName,
	}
}

// modelsResponse 可用模型列表响应
type modelsResponse struct {
	AvailableModels []string `json:"available_models"`
}

// appNameResponse 应用名称响应
type appNameResponse struct {
	AppName string `json:"app_name"`
}

// GetModels 查询可用模型列表
// @Summary 获取可用模型列表
// @Description 按目录文件顺序返回全部可选模型名，供前端下拉框使用
// @Tags Infos
// @Produce json
// @Success 200 {object} modelsResponse
// @Router /infos/models/ [get]
func (h *Handler) GetModels(c *gin.Context) {
	c.JSON(http.StatusOK, modelsResponse{
		AvailableModels: h.catalog.ListAll(),
	})
}

// GetAppName 查询应用名称
// @Summary 获取应用名称
// @Tags Infos
// @Produce json
// @Success 200 {object} appNameResponse
// @Router /infos/app_name/ [get]
func (h *Handler) GetAppName(c *gin.Context) {
	c.JSON(http.StatusOK, appNameResponse{
		AppName: h.appName,
	})
}
