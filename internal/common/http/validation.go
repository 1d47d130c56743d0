package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the struct tags of v and flattens any violations into
// a field→reason map suitable for an error envelope.
func ValidateStruct(v any) (map[string]any, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}

	var invalid validator.ValidationErrors
	details := make(map[string]any)
	if errors.As(err, &invalid) {
		for _, fe := range invalid {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return details, err
}

func ValidateUUID(s string) error {
	_, err := uuid.Parse(s)
	return err
}
