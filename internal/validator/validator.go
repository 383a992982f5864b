// Package validator collects field-level validation failures for request
// payloads.
package validator

import "unicode/utf8"

// Validator accumulates one message per failing field.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for key unless key already has one.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func MaxChars(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// NonNegative is true for a nil pointer or a value >= 0.
func NonNegative(p *int) bool {
	return p == nil || *p >= 0
}
