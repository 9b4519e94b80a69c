package response

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	UserID   string `json:"user_id"  binding:"required,uuid"`
	Password string `json:"password" binding:"required,min=8"`
	Status   string `json:"status"   binding:"omitempty,oneof=approved rejected"`
}

func TestFormatBindingError_Validation(t *testing.T) {
	err := binding.Validator.ValidateStruct(&sampleRequest{Password: "corta", Status: "otro"})
	msg := FormatBindingError(err)

	assert.Contains(t, msg, "El campo 'user_id' es requerido")
	assert.Contains(t, msg, "El campo 'password' debe ser al menos 8")
	assert.Contains(t, msg, "El campo 'status' debe ser uno de: approved rejected")
}

func TestFormatBindingError_JSON(t *testing.T) {
	var v sampleRequest
	err := json.NewDecoder(strings.NewReader(`{"user_id": 12}`)).Decode(&v)
	assert.Contains(t, FormatBindingError(err), "'user_id'")

	err = json.Unmarshal([]byte(`{"user_id":`), &v)
	assert.NotEmpty(t, FormatBindingError(err))

	assert.Equal(t, "El cuerpo de la petición está vacío", FormatBindingError(io.EOF))
	assert.Equal(t, "", FormatBindingError(nil))
}
