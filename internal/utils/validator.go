package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate     *validator.Validate
	validateOnce sync.Once
)

func InitValidator() {
	validateOnce.Do(func() {
		Validate = validator.New()
	})
}

// Validator returns the shared validator, creating it on first use.
func Validator() *validator.Validate {
	InitValidator()
	return Validate
}
