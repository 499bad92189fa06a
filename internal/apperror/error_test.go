package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	assert.Equal(t, Code(""), GetCode(nil))
	assert.Equal(t, CodeInternal, GetCode(errors.New("boom")))
	assert.Equal(t, CodeConflict, GetCode(Conflict("taken")))

	wrapped := fmt.Errorf("delete department: %w", NotFound("department not found"))
	assert.Equal(t, CodeNotFound, GetCode(wrapped))
}

func TestValidationFields(t *testing.T) {
	single := ValidationFields(map[string]string{"name": "name is required"})
	assert.Equal(t, "name is required", single.Error())

	multi := ValidationFields(map[string]string{"name": "required", "email": "invalid"})
	assert.Equal(t, "the given data was invalid", multi.Error())
	assert.Len(t, FieldErrors(fmt.Errorf("wrap: %w", multi)), 2)

	assert.Nil(t, FieldErrors(errors.New("plain")))
	assert.Equal(t, map[string]string{"email": "taken"}, Validation("email", "taken").Fields)
}
