// file: internals/helpers/validate.go
package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags and flattens failures into the
// field → messages map used by JsonValidationError.
func ValidateStruct(s any) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	out := map[string][]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg := "failed on rule: " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out[field] = append(out[field], msg)
	}
	return out
}
