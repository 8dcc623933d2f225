package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator 错误信息中使用 json 字段名，便于客户端定位
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateDTO 只返回第一条校验失败信息
func ValidateDTO(dto any) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return err
	}
	return errors.New(describe(vErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("字段 [%s] 不能为空", field)
	case "max":
		return fmt.Sprintf("字段 [%s] 超出长度限制 %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("字段 [%s] 不能小于 %s", field, fe.Param())
	default:
		return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", field, fe.Tag())
	}
}
