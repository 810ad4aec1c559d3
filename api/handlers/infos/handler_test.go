package infos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Parse([]byte(`{
		"available_models": {"Mistral-7B": 7, "Llama-3-70B": 70, "Gemma-2B": 2}
	}`))
	require.NoError(t, err)

	h := NewHandler(cat, "EcoLLM - Carbon Impact Simulation")
	router := gin.New()
	router.GET("/infos/models/", h.GetModels)
	router.GET("/infos/app_name/", h.GetAppName)
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetModels(t *testing.T) {
	t.Run("按目录顺序返回全部模型名", func(t *testing.T) {
		router := setupRouter(t)

		w := doGet(router, "/infos/models/")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			AvailableModels []string `json:"available_models"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Mistral-7B", "Llama-3-70B", "Gemma-2B"}, resp.AvailableModels)
	})

	t.Run("两次查询结果一致", func(t *testing.T) {
		router := setupRouter(t)

		first := doGet(router, "/infos/models/")
		second := doGet(router, "/infos/models/")
		assert.Equal(t, first.Body.String(), second.Body.String())
	})
}

func TestGetAppName(t *testing.T) {
	t.Run("返回配置的应用名称", func(t *testing.T) {
		router := setupRouter(t)

		w := doGet(router, "/infos/app_name/")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			AppName string `json:"app_name"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "EcoLLM - Carbon Impact Simulation", resp.AppName)
	})
}
