package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cvtrack/internal/countries"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateCountry, countries.Country{})
	return v
}

func validateCountry(sl validator.StructLevel) {
	c := sl.Current().Interface().(countries.Country)
	if strings.TrimSpace(c.Name) == "" {
		sl.ReportError(c.Name, "Name", "Name", "required", "")
	}
	if len(c.Keywords) == 0 {
		sl.ReportError(c.Keywords, "Keywords", "Keywords", "min", "1")
	}
}

// Validate checks cfg and reports every invalid field.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
