package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/braunma/buildcheck/pkg/models"
)

var specValidate *validator.Validate

func init() {
	specValidate = validator.New()
}

// ValidateSpec checks the per-type required fields of a specification record.
// Records are validated once here so validators can rely on their shape.
func ValidateSpec(spec models.ComponentSpec) error {
	if spec == nil {
		return errors.New("nil specification")
	}
	err := specValidate.Struct(spec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
