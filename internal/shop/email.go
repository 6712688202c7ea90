package shop

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// validEmail reports whether the checkout email passes format checks.
func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
