package lead

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrInvalidState      = errors.New("invalid lead state")
	ErrInvalidTransition = errors.New("lead state cannot move backwards")
	ErrResumeRequired    = errors.New("resume is required")
)

// ValidationError carries one message per failing form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}
