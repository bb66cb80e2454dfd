package validator

import (
	"heartlink_backend/internal/config"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules attaches domain rules to the validator instance.
func registerCustomRules(v *validator.Validate) error {
	// answer-scale: an ordinal questionnaire answer within [1, max_scale].
	return v.RegisterValidation("answer-scale", func(fl validator.FieldLevel) bool {
		value := fl.Field().Int()
		maxScale := int64(config.GetConfig().Questionnaire.MaxScale)
		return value >= 1 && value <= maxScale
	})
}
