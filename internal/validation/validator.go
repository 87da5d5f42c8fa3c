package validation

import validatorv10 "github.com/go-playground/validator/v10"

// New returns the validator shared by all handlers. Rules live in the struct
// tags on the request types.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
