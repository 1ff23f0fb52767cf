package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func init() {
	// 校验错误使用 json 字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON 解析并校验请求体，失败时写入 400 响应并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		ValidationFailed(c, fieldErrors(err))
		return false
	}
	return true
}

// fieldErrors 将绑定错误转换为 字段名 -> 规则 的映射
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	case errors.As(err, &typeErr):
		fields[typeErr.Field] = "type"
	default:
		fields["body"] = "invalid"
	}
	return fields
}

// parseTimestamp 解析 RFC3339 或 YYYY-MM-DD，为空时返回当前时间
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if d, err := models.ParseDate(s); err == nil {
		return d.Time, true
	}
	return time.Time{}, false
}

// validID 路径中的记录 ID 必须是 UUID
func validID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
