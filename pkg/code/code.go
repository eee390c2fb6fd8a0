// Package code 定义错误码表
package code

import (
	"fmt"
)

// Code 业务状态码
type Code struct {
	// 状态码
	code int
	// 消息
	msg string
	// 错误详细信息
	details []string
}

var codes = map[int]string{}

// NewError 注册一个错误码，重复注册会 panic
func NewError(code int, msg string) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = msg
	return &Code{code: code, msg: msg}
}

func (e *Code) Error() string {
	return fmt.Sprintf("code %d: %s", e.code, e.msg)
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Msg() string {
	return e.msg
}

func (e *Code) Details() []string {
	return e.details
}

// WithDetails 返回携带详情的新副本，不修改原对象
func (e *Code) WithDetails(details ...string) *Code {
	c := &Code{
		code: e.code,
		msg:  e.msg,
	}
	c.details = append(c.details, details...)
	return c
}

// Is 支持 errors.Is 按状态码比较
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return e.code == t.code
}
