package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := stderrors.New("connection refused")

	assert.Equal(t, "[CONFIG_ERROR] no price intervals", Config("no price intervals").Error())
	assert.Equal(t, "[TRANSPORT_FAILURE] holiday request failed: connection refused",
		Transport("holiday request failed", cause).Error())
}

func TestIsTypeFollowsWrapping(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("resolving date: %w", Transport("holiday request failed", cause))

	assert.True(t, IsType(err, TypeTransport))
	assert.False(t, IsType(err, TypeEmptyResult))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, Type(""), TypeOf(cause))
}

func TestIsLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", Transport("x", nil), true},
		{"malformed", Malformed("x", nil), true},
		{"empty", Empty("x"), true},
		{"config", Config("x"), false},
		{"plain", stderrors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLookup(tt.err))
		})
	}
}

func TestWithContext(t *testing.T) {
	err := Parsing("bad time of day", nil).WithContext("line", 4)
	assert.Equal(t, 4, err.Context["line"])
	assert.True(t, err.Is(TypeParsing))
}
