package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// Date 仅包含年月日的日期，JSON 格式为 YYYY-MM-DD，统一使用 UTC
type Date struct {
	time.Time
}

// NewDate 截断到当天零点
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// Today 当前日期
func Today() Date {
	return NewDate(time.Now())
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON 输出 YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 解析 YYYY-MM-DD
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected %s", s, DateLayout)
	}
	*d = parsed
	return nil
}

// Value 实现 driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan 实现 sql.Scanner，兼容驱动返回的 time.Time 与字符串
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		if parsed, err := ParseDate(s[:len(DateLayout)]); err == nil {
			*d = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as Date", s)
}
