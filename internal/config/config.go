package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Models    ModelsConfig    `mapstructure:"models"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Carbon    CarbonConfig    `mapstructure:"carbon"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// AppConfig 应用元信息配置
type AppConfig struct {
	Name string `mapstructure:"name"` // 对外展示的应用名称
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, /path/to/log
}

// ModelsConfig 模型目录配置
type ModelsConfig struct {
	CatalogPath string `mapstructure:"catalog_path"` // 模型参数目录 JSON 文件路径
}

// PredictorConfig 能耗预测服务（IBM Watson ML v4 部署）配置
type PredictorConfig struct {
	APIKey         string `mapstructure:"api_key"`         // IBM Cloud API Key
	Region         string `mapstructure:"region"`          // 区域，如 us-south
	DeploymentID   string `mapstructure:"deployment_id"`   // 部署 ID
	Version        string `mapstructure:"version"`         // API 版本日期，如 2021-05-01
	UsePrivate     bool   `mapstructure:"use_private"`     // 是否走私网端点
	ConnectTimeout int    `mapstructure:"connect_timeout"` // 连接超时（秒）
	ReadTimeout    int    `mapstructure:"read_timeout"`    // 读取超时（秒）
	MaxRetries     int    `mapstructure:"max_retries"`     // 5xx 重试次数
}

// CarbonConfig 电网碳强度服务（ElectricityMaps）配置
type CarbonConfig struct {
	APIToken          string  `mapstructure:"api_token"`          // ElectricityMaps auth-token
	BaseURL           string  `mapstructure:"base_url"`           // API 基础地址
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`    // 请求超时（秒）
	FallbackIntensity float64 `mapstructure:"fallback_intensity"` // 降级默认碳强度 gCO2/kWh
	CacheTTL          string  `mapstructure:"cache_ttl"`          // 按坐标缓存窗口，如 "5m"，空则不缓存
}

// RedisConfig Redis 配置（碳强度缓存的可选后端）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var globalConfig *Config

// Load 加载配置
// env: 环境名称（dev, prod, test）
// configPath: 配置文件路径（可选）
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件名和路径
	if configPath == "" {
		v.SetConfigName(env) // dev.yaml, prod.yaml
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
		v.AddConfigPath("../../config")
	} else {
		v.SetConfigFile(configPath)
	}

	v.SetConfigType("yaml")

	// 读取环境变量（优先级高于配置文件）
	v.SetEnvPrefix("APP") // 环境变量前缀：APP_
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 支持嵌套配置：APP_PREDICTOR_API_KEY

	// 密钥类配置通常只存在于环境变量中，显式绑定保证 Unmarshal 能读到
	v.BindEnv("predictor.api_key")
	v.BindEnv("carbon.api_token")
	v.BindEnv("redis.password")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(&cfg)

	globalConfig = &cfg
	return &cfg, nil
}

// applyDefaults 填充缺省配置值
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "EcoLLM - Carbon Impact Simulation"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.OutputPath == "" {
		cfg.Log.OutputPath = "stdout"
	}
	if cfg.Models.CatalogPath == "" {
		cfg.Models.CatalogPath = "./config/models.json"
	}
	if cfg.Predictor.Version == "" {
		cfg.Predictor.Version = "2021-05-01"
	}
	if cfg.Predictor.ConnectTimeout <= 0 {
		cfg.Predictor.ConnectTimeout = 8
	}
	if cfg.Predictor.ReadTimeout <= 0 {
		cfg.Predictor.ReadTimeout = 60
	}
	if cfg.Carbon.BaseURL == "" {
		cfg.Carbon.BaseURL = "https://api.electricitymaps.com"
	}
	if cfg.Carbon.TimeoutSeconds <= 0 {
		cfg.Carbon.TimeoutSeconds = 5
	}
	if cfg.Carbon.FallbackIntensity <= 0 {
		// 全球平均电网碳强度，外部服务不可用时的降级值
		cfg.Carbon.FallbackIntensity = 475
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}
