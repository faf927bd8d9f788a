// Package validation provides input validation for rallykit descriptors
// and configuration.
//
// It supports struct tag validation (using the validator library) for
// configuration values and programmatic validation with error collection for
// operation descriptors, whose required fields depend on the verb.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Server string `mapstructure:"server" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("type", op.Type).
//	    NotEmpty("data", op.Data).
//	    Validate()
package validation
