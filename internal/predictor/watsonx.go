package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/metrics"

	"go.uber.org/zap"
)

// defaultIAMURL IBM Cloud IAM 令牌端点
const defaultIAMURL = "https://iam.cloud.ibm.com/identity/token"

// tokenTTL IAM 令牌刷新间隔，官方有效期 60 分钟，提前 10 分钟刷新
const tokenTTL = 50 * time.Minute

// WatsonClient IBM Watson ML v4 部署评分客户端
type WatsonClient struct {
	apiKey     string
	predictURL string
	iamURL     string
	maxRetries int
	httpClient *http.Client

	mu              sync.Mutex
	token           string
	tokenObtainedAt time.Time
}

// WatsonOption 客户端配置选项
type WatsonOption func(*WatsonClient)

// WithEndpoints 覆盖评分与 IAM 端点（测试用）
func WithEndpoints(predictURL, iamURL string) WatsonOption {
	return func(c *WatsonClient) {
		c.predictURL = predictURL
		c.iamURL = iamURL
	}
}

// NewWatsonClient 创建 Watson ML 客户端
func NewWatsonClient(cfg config.PredictorConfig, opts ...WatsonOption) (*WatsonClient, error) {
	if cfg.APIKey == "" || strings.HasPrefix(strings.ToLower(cfg.APIKey), "cpd-") {
		return nil, fmt.Errorf("需要有效的 IBM Cloud API Key（不支持 CPD Key）")
	}

	host := fmt.Sprintf("%s.ml.cloud.ibm.com", cfg.Region)
	if cfg.UsePrivate {
		host = fmt.Sprintf("private.%s.ml.cloud.ibm.com", cfg.Region)
	}

	client := &WatsonClient{
		apiKey: cfg.APIKey,
		predictURL: fmt.Sprintf("https://%s/ml/v4/deployments/%s/predictions?version=%s",
			host, cfg.DeploymentID, cfg.Version),
		iamURL:     defaultIAMURL,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.ConnectTimeout+cfg.ReadTimeout) * time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// scoringPayload WML v4 评分请求体
type scoringPayload struct {
	InputData []scoringInput `json:"input_data"`
}

// scoringInput 单组评分输入
type scoringInput struct {
	Fields []string `json:"fields"`
	Values [][]any  `json:"values"`
}

// scoringResponse WML v4 评分响应体
type scoringResponse struct {
	Predictions []struct {
		Fields []string    `json:"fields"`
		Values [][]float64 `json:"values"`
	} `json:"predictions"`
}

// Predict 调用部署模型预测单次请求的能耗
// 特征字段顺序必须与模型训练时一致
func (c *WatsonClient) Predict(ctx context.Context, in Input) (Estimate, error) {
	payload := scoringPayload{
		InputData: []scoringInput{{
			Fields: []string{
				"usable_gpu", "device", "nb_parameters",
				"word_count", "avg_word_length",
				"avg_sentence_length", "avg_sentence_length_cubed",
				"question_marks", "exclamation_marks",
			},
			Values: [][]any{{
				in.HasGPU, strings.ToLower(in.DeviceType), in.ParameterCount,
				in.Prompt.WordCount, in.Prompt.AvgWordLength,
				in.Prompt.AvgSentenceLength, in.Prompt.AvgSentenceLengthCubed(),
				in.Prompt.QuestionMarks(), in.Prompt.ExclamationMarks(),
			}},
		}},
	}

	start := time.Now()
	resp, err := c.sendPrediction(ctx, payload)
	metrics.PredictorRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictorRequestsTotal.WithLabelValues("error").Inc()
		return Estimate{}, err
	}
	metrics.PredictorRequestsTotal.WithLabelValues("success").Inc()

	return parseEstimate(resp)
}

// parseEstimate 从评分响应中提取能耗与可选的基线碳排放
func parseEstimate(resp *scoringResponse) (Estimate, error) {
	if len(resp.Predictions) == 0 || len(resp.Predictions[0].Values) == 0 ||
		len(resp.Predictions[0].Values[0]) == 0 {
		return Estimate{}, fmt.Errorf("评分响应格式异常：缺少预测值")
	}

	row := resp.Predictions[0].Values[0]
	estimate := Estimate{EnergyKWh: row[0]}
	if estimate.EnergyKWh <= 0 {
		return Estimate{}, fmt.Errorf("评分响应异常：能耗预测值 %v 非正数", estimate.EnergyKWh)
	}

	if len(row) > 1 {
		estimate.BaselineCarbonGCO2 = row[1]
		estimate.HasBaseline = true
	}

	return estimate, nil
}

// sendPrediction 发送评分请求，处理令牌刷新与 5xx 重试
func (c *WatsonClient) sendPrediction(ctx context.Context, payload scoringPayload) (*scoringResponse, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		status, body, err := c.postScoring(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("评分请求失败: %w", err)
		}

		// 令牌过期，强制刷新后重发一次
		if status == http.StatusUnauthorized && attempt == 0 {
			logger.WithContext(ctx).Warn("评分请求返回401，刷新令牌后重试")
			if err := c.refreshToken(ctx); err != nil {
				return nil, err
			}
			status, body, err = c.postScoring(ctx, payload)
			if err != nil {
				return nil, fmt.Errorf("评分请求失败: %w", err)
			}
		}

		if status >= 200 && status < 300 {
			var resp scoringResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, fmt.Errorf("解析评分响应失败: %w", err)
			}
			return &resp, nil
		}

		// 服务端错误按配置重试
		if status >= 500 && attempt < c.maxRetries {
			logger.WithContext(ctx).Warn("评分服务返回服务端错误，稍后重试",
				zap.Int("status", status),
				zap.Int("attempt", attempt+1),
			)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("评分请求返回错误状态 %d: %s", status, truncate(string(body), 256))
	}

	return nil, fmt.Errorf("评分请求重试次数耗尽")
}

// postScoring 发送单次评分 POST 请求
func (c *WatsonClient) postScoring(ctx context.Context, payload scoringPayload) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("序列化评分请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL, strings.NewReader(string(data)))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.currentToken())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("读取评分响应失败: %w", err)
	}
	return resp.StatusCode, body, nil
}

// currentToken 读取当前令牌
func (c *WatsonClient) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// ensureToken 确保令牌有效，过期则刷新
func (c *WatsonClient) ensureToken(ctx context.Context) error {
	c.mu.Lock()
	fresh := c.token != "" && time.Since(c.tokenObtainedAt) < tokenTTL
	c.mu.Unlock()

	if fresh {
		return nil
	}
	return c.refreshToken(ctx)
}

// refreshToken 向 IAM 换取新的访问令牌
func (c *WatsonClient) refreshToken(ctx context.Context) error {
	form := url.Values{
		"grant_type": {"urn:ibm:params:oauth:grant-type:apikey"},
		"apikey":     {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.iamURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("IAM 令牌请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取 IAM 响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("IAM 令牌请求返回错误状态 %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return fmt.Errorf("解析 IAM 响应失败: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("IAM 响应缺少 access_token")
	}

	c.mu.Lock()
	c.token = tokenResp.AccessToken
	c.tokenObtainedAt = time.Now()
	c.mu.Unlock()

	logger.Debug("IAM 令牌已刷新")
	return nil
}

// truncate 截断过长的错误响应内容
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
