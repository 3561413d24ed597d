package util

import (
	"strings"

	"github.com/google/uuid"
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

// Float64Ptr returns a pointer to the given float.
func Float64Ptr(f float64) *float64 {
	return &f
}

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}
