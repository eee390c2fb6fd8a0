// Package convert 提供类型转换辅助
package convert

import (
	"strconv"
)

// StrTo 字符串转换辅助类型
type StrTo string

func (s StrTo) String() string {
	return string(s)
}

func (s StrTo) Int() (int, error) {
	v, err := strconv.Atoi(s.String())
	return v, err
}

func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}

func (s StrTo) Int64() (int64, error) {
	v, err := strconv.ParseInt(s.String(), 10, 64)
	return v, err
}

func (s StrTo) MustInt64() int64 {
	v, _ := s.Int64()
	return v
}

func (s StrTo) Bool() (bool, error) {
	return strconv.ParseBool(s.String())
}

func (s StrTo) MustBool() bool {
	v, _ := s.Bool()
	return v
}
