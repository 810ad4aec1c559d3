package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Load 会写启动日志，测试前初始化全局 Logger
	if err := logger.Init("error", "console", "stdout"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const catalogJSON = `{
  "available_models": {
    "Mistral-7B": 7,
    "Llama-3-70B": 70,
    "Gemma-2B": 2
  }
}`

func TestParse(t *testing.T) {
	t.Run("保留目录文件的插入顺序", func(t *testing.T) {
		cat, err := Parse([]byte(catalogJSON))
		require.NoError(t, err)

		assert.Equal(t, []string{"Mistral-7B", "Llama-3-70B", "Gemma-2B"}, cat.ListAll())
	})

	t.Run("支持无包装层的顶层映射", func(t *testing.T) {
		cat, err := Parse([]byte(`{"Mistral-7B": 7}`))
		require.NoError(t, err)

		spec, err := cat.Lookup("Mistral-7B")
		require.NoError(t, err)
		assert.Equal(t, 7, spec.ParameterCount)
	})

	t.Run("空目录报错", func(t *testing.T) {
		_, err := Parse([]byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("参数量非正数报错", func(t *testing.T) {
		_, err := Parse([]byte(`{"Bad-Model": 0}`))
		assert.Error(t, err)

		_, err = Parse([]byte(`{"Bad-Model": -7}`))
		assert.Error(t, err)
	})

	t.Run("参数量非数字报错", func(t *testing.T) {
		_, err := Parse([]byte(`{"Bad-Model": "seven"}`))
		assert.Error(t, err)
	})

	t.Run("归一化后重复的模型名报错", func(t *testing.T) {
		_, err := Parse([]byte(`{"Mistral-7B": 7, "mistral 7b": 7}`))
		assert.Error(t, err)
	})
}

func TestCatalog_Lookup(t *testing.T) {
	cat, err := Parse([]byte(catalogJSON))
	require.NoError(t, err)

	t.Run("精确名称命中", func(t *testing.T) {
		spec, err := cat.Lookup("Mistral-7B")
		require.NoError(t, err)
		assert.Equal(t, "Mistral-7B", spec.ModelID)
		assert.Equal(t, 7, spec.ParameterCount)
	})

	t.Run("名称归一化后命中", func(t *testing.T) {
		for _, name := range []string{"mistral-7b", "Mistral 7B", "  mistral_7b  ", "MISTRAL7B"} {
			spec, err := cat.Lookup(name)
			require.NoError(t, err, "name=%q", name)
			assert.Equal(t, 7, spec.ParameterCount)
		}
	})

	t.Run("未知模型返回ErrUnknownModel", func(t *testing.T) {
		_, err := cat.Lookup("NonExistentModel-9000")
		assert.ErrorIs(t, err, ErrUnknownModel)
	})

	t.Run("查找结果确定性", func(t *testing.T) {
		first, err1 := cat.Lookup("Llama-3-70B")
		second, err2 := cat.Lookup("Llama-3-70B")
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
	})
}

func TestLoad(t *testing.T) {
	t.Run("从文件加载", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "models.json")
		require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))

		cat, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, cat.ListAll(), 3)
	})

	t.Run("文件不存在报错", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}
