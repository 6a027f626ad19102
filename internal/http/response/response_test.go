package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		UserUID   string `validate:"required,uuid"`
		Name      string `validate:"required,fqdn"`
		Price     int    `validate:"gt=0"`
		StartDate string `validate:"datetime=02-01-2006"`
	}

	v := validator.New()
	ts := TestStruct{
		UserUID:   "not-a-uuid",
		Name:      "!!!",
		Price:     -5,
		StartDate: "2026-01-01",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field UserUID can contain only uuid")
	assert.Contains(t, resp.Error, "field Name can contain only a valid domain name")
	assert.Contains(t, resp.Error, "field Price must be greater than 0")
	assert.Contains(t, resp.Error, "field StartDate can contain only date in format 02-01-2006")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		PlanName string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field PlanName is a required field")
}
