package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"backend/internal/logger"

	"go.uber.org/zap"
)

// ErrUnknownModel 模型不在目录中
var ErrUnknownModel = errors.New("模型不在可用目录中")

// ModelSpec 模型静态参考信息
type ModelSpec struct {
	ModelID        string // 目录中的原始模型名
	ParameterCount int    // 参数量（十亿为单位）
}

// Catalog 模型参数目录
// 进程启动时从 JSON 文件加载一次，此后只读，无需加锁
type Catalog struct {
	order []string             // 目录文件中的插入顺序
	specs map[string]ModelSpec // 归一化名称 -> 规格
}

// keyReplacer 模型名归一化：去掉空格、连字符、下划线
var keyReplacer = strings.NewReplacer(" ", "", "-", "", "_", "")

// normalizeKey 归一化模型名，保证查找时大小写和分隔符不敏感
func normalizeKey(key string) string {
	return keyReplacer.Replace(strings.ToLower(strings.TrimSpace(key)))
}

// Load 从 JSON 文件加载模型目录
// 文件格式：{"available_models": {"Mistral-7B": 7, ...}} 或直接的顶层映射
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取模型目录文件失败: %w", err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析模型目录文件 %s 失败: %w", path, err)
	}

	logger.Info("模型目录加载完成",
		zap.String("path", path),
		zap.Int("count", len(cat.order)),
	)
	return cat, nil
}

// Parse 解析模型目录 JSON 内容，保留键的插入顺序
func Parse(data []byte) (*Catalog, error) {
	// 先探测是否有 available_models 包装层
	var probe struct {
		Available json.RawMessage `json:"available_models"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}
	if probe.Available != nil {
		data = probe.Available
	}

	// 标准库 map 不保留键序，这里用 Decoder 按 token 顺序读取
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("模型目录必须是 JSON 对象")
	}

	cat := &Catalog{
		specs: make(map[string]ModelSpec),
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("JSON 解析失败: %w", err)
		}
		name := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("JSON 解析失败: %w", err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("模型 %q 的参数量必须是数字", name)
		}
		params, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("模型 %q 的参数量必须是整数: %w", name, err)
		}
		if params <= 0 {
			return nil, fmt.Errorf("模型 %q 的参数量必须为正数", name)
		}

		normalized := normalizeKey(name)
		if _, exists := cat.specs[normalized]; exists {
			return nil, fmt.Errorf("模型 %q 在目录中重复", name)
		}

		cat.order = append(cat.order, name)
		cat.specs[normalized] = ModelSpec{
			ModelID:        name,
			ParameterCount: int(params),
		}
	}

	if len(cat.order) == 0 {
		return nil, fmt.Errorf("模型目录为空")
	}

	return cat, nil
}

// Lookup 按模型名查找规格，名称归一化后匹配
func (c *Catalog) Lookup(modelID string) (ModelSpec, error) {
	spec, ok := c.specs[normalizeKey(modelID)]
	if !ok {
		return ModelSpec{}, fmt.Errorf("模型 %q: %w", modelID, ErrUnknownModel)
	}
	return spec, nil
}

// ListAll 按目录文件的插入顺序返回全部模型名
func (c *Catalog) ListAll() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
