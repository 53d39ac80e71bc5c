// Package shared holds the setup common to the API and the admin CLI.
package shared

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/user"
)

// NewValidator returns the pt_BR validator with the validations of every package registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	student.InitValidators(validate)
	professor.InitValidators(validate)
	return validate, translator
}
