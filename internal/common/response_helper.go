package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseSuccess 返回成功响应（直接返回契约对象，不包信封）
func ResponseSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// ResponseError 返回错误响应
func ResponseError(c *gin.Context, code int, message string) {
	httpStatus := http.StatusOK // 业务错误也返回200

	// 业务状态码映射到HTTP状态码
	switch code {
	case CodeNotFound:
		httpStatus = http.StatusNotFound
	case CodeInvalidRequest, CodeInvalidPrompt, CodeUnknownModel, CodeInvalidLocation, CodeInvalidScale:
		httpStatus = http.StatusBadRequest
	case CodePredictionFailed:
		httpStatus = http.StatusBadGateway
	case CodeServiceUnavailable:
		httpStatus = http.StatusServiceUnavailable
	case CodeInternalError:
		httpStatus = http.StatusInternalServerError
	}

	c.JSON(httpStatus, ErrorResponse(code, message))
}

// ResponseBusinessError 返回业务错误响应
func ResponseBusinessError(c *gin.Context, err *BusinessError) {
	ResponseError(c, err.Code, err.Message)
}

// ResponseFromError 根据错误类型返回响应：业务错误按码映射，其余按内部错误处理
func ResponseFromError(c *gin.Context, err error) {
	var bizErr *BusinessError
	if errors.As(err, &bizErr) {
		ResponseBusinessError(c, bizErr)
		return
	}
	ResponseError(c, CodeInternalError, err.Error())
}

// ResponseBadRequest 返回参数错误响应
func ResponseBadRequest(c *gin.Context, message string) {
	ResponseError(c, CodeInvalidRequest, message)
}

// ResponseServerError 返回服务器错误响应
func ResponseServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	ResponseError(c, CodeInternalError, message)
}
