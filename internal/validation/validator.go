// Package validation wraps the shared validator instance used to check
// request bodies (todo task length, profile field limits) against their
// struct tags.
package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the process-wide validator. Built lazily; validator instances
// cache struct metadata, so sharing one is both safe and cheaper.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks s against its `validate` tags and returns the first
// violation as an error, or nil when the value passes.
func Validate(s any) error {
	return Get().Struct(s)
}
