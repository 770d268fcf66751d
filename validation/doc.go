// Package validation validates configuration structs with
// go-playground/validator struct tags.
//
//	type Config struct {
//	    BaseURL string        `mapstructure:"base_url" validate:"required,url"`
//	    Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
//	}
//	err := validation.Validate(cfg)
//
// Errors are *errors.AppError values with code INVALID_INPUT. Field names are
// taken from the mapstructure, yaml or json tag, in that order.
package validation
