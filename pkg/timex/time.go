// Package timex 提供数据库与 JSON 友好的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const layout = "2006-01-02 15:04:05"

// 驱动以文本返回时间时可能带小数秒或时区后缀
var scanLayouts = []string{
	layout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

func parseScan(s string) (time.Time, error) {
	var lastErr error
	for _, l := range scanLayouts {
		parsed, err := time.ParseInLocation(l, s, time.Local)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Time 数据库存储与 JSON 序列化使用统一格式的时间类型
type Time time.Time

// Now 返回当前时间
func Now() Time {
	return Time(time.Now())
}

func (t Time) String() string {
	return time.Time(t).Format(layout)
}

// Time 转换为标准 time.Time
func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// MarshalJSON 实现 json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON 实现 json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `""` || s == "null" {
		*t = Time(time.Time{})
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timex: invalid time literal %s", s)
	}
	parsed, err := time.ParseInLocation(layout, s[1:len(s)-1], time.Local)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Value 实现 driver.Valuer，供 gorm 写库使用
func (t Time) Value() (driver.Value, error) {
	if time.Time(t).IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现 sql.Scanner，供 gorm 读库使用
func (t *Time) Scan(v any) error {
	switch value := v.(type) {
	case nil:
		*t = Time(time.Time{})
	case time.Time:
		*t = Time(value)
	case string:
		parsed, err := parseScan(value)
		if err != nil {
			return err
		}
		*t = Time(parsed)
	case []byte:
		parsed, err := parseScan(string(value))
		if err != nil {
			return err
		}
		*t = Time(parsed)
	default:
		return fmt.Errorf("timex: cannot scan %T into Time", v)
	}
	return nil
}
