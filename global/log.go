// Package global 持有跨包共享的进程级单例
package global

import (
	"fmt"
	"runtime"

	dumpx "github.com/gookit/goutil/dump"
	"go.uber.org/zap"
)

// Logger 进程级日志器，服务启动时注入
var Logger *zap.Logger

// Log 获取进程级日志器
func Log() *zap.Logger {
	return Logger
}

// Dump 带调用位置打印变量内容，联调用
func Dump(a ...any) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		fmt.Printf("\033[32m%s:%d:\033[0m\n", file, line)
	}
	dumpx.P(a...)
}
