package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title string `validate:"required,notblank,max=10"`
	Email string `validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Title: "Dune"})
		assert.Nil(t, details)
	})

	t.Run("missing required field", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{})
		require.Len(t, details, 1)
		assert.Equal(t, "title", details[0].Field)
		assert.Equal(t, "is required", details[0].Message)
	})

	t.Run("whitespace fails notblank", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Title: "   "})
		require.Len(t, details, 1)
		assert.Equal(t, "cannot be blank", details[0].Message)
	})

	t.Run("too long", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Title: "a very long title"})
		require.Len(t, details, 1)
		assert.Equal(t, "must be at most 10 characters", details[0].Message)
	})

	t.Run("bad email", func(t *testing.T) {
		details := ValidateStruct(sampleRequest{Title: "Dune", Email: "nope"})
		require.Len(t, details, 1)
		assert.Equal(t, "email", details[0].Field)
	})
}
