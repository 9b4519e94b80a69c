package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// 校验错误中使用 json 字段名
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

// ValidationFailed 400 参数校验失败，details 为可读的字段错误
// 请求体超过 BodyLimit 时返回 413
func ValidationFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(c, http.StatusRequestEntityTooLarge, 10005, "Cuerpo de la solicitud demasiado grande")
		return
	}
	ErrorWithDetails(c, http.StatusBadRequest, 10001, "Parámetros inválidos", FormatBindingError(err))
}

// FormatBindingError 将绑定/校验错误转为可读文本
func FormatBindingError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, io.EOF) {
		return "El cuerpo de la petición está vacío"
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("JSON inválido en la posición %d", syntaxErr.Offset)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("El campo '%s' debe ser de tipo %s", typeErr.Field, typeErr.Type.String())
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]string, 0, len(ve))
		for _, fe := range ve {
			out = append(out, formatFieldError(fe))
		}
		return strings.Join(out, ", ")
	}

	return err.Error()
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo '%s' es requerido", fe.Field())
	case "email":
		return fmt.Sprintf("El campo '%s' debe ser un email válido", fe.Field())
	case "uuid":
		return fmt.Sprintf("El campo '%s' debe ser un UUID", fe.Field())
	case "min":
		return fmt.Sprintf("El campo '%s' debe ser al menos %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo '%s' debe ser como máximo %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo '%s' debe ser uno de: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("El campo '%s' no cumple la regla '%s'", fe.Field(), fe.Tag())
}
