// Package fileurl 提供文件路径辅助函数
package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// IsExist determines if the path exists
// IsExist 判断路径是否存在
func IsExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}

// IsDir determines if the given path is a directory
// IsDir 判断所给路径是否为文件夹
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// CreatePath creates the parent directory of the given file path
// CreatePath 创建所给文件路径的父目录
func CreatePath(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// GetExePath 获取可执行文件所在目录
func GetExePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// PathSuffixCheckAdd 确保路径以指定后缀结尾
func PathSuffixCheckAdd(path string, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		return path + suffix
	}
	return path
}
