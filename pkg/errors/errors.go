// Package errors 提供统一的应用错误结构
package errors

import (
	"errors"
	"time"

	"github.com/haierkeys/fast-note-offline-client/pkg/code"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、原始错误和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 从错误链中获取 AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCode 判断 err 的错误链中是否含有指定状态码
func IsCode(err error, c *code.Code) bool {
	if err == nil {
		return false
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr.Code() == c.Code()
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == c.Code()
	}
	return false
}
