package application

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"wpkirby/internal/domain"
)

var validate = validator.New()

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts field names to space-separated words
// for more readable error messages (e.g., "SiteURL" -> "site URL")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"SiteURL":    "site URL",
		"BlogBase":   "blog base",
		"Credential": "credential",
		"exportRoot": "export root",
		"source":     "content source",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateRunConfig checks the caller-supplied run inputs.
// Returns the first failing field as a ValidationError.
func ValidateRunConfig(cfg domain.RunConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			}
		}
		return err
	}

	if err := ValidateSiteURL(cfg.SiteURL); err != nil {
		return err
	}

	if domain.SanitizeBlogBase(cfg.BlogBase) == "" {
		return &ValidationError{
			Field:   "BlogBase",
			Message: fmt.Sprintf("blog base %q has no path-safe characters", cfg.BlogBase),
		}
	}

	return nil
}

func validationMessage(fe validator.FieldError) string {
	name := formatFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "url", "startswith":
		return fmt.Sprintf("%s must be an absolute http(s) URL", name)
	default:
		return fmt.Sprintf("%s failed %s check", name, fe.Tag())
	}
}

// ValidateSiteURL checks that the site URL is absolute with an http(s) scheme and a host
func ValidateSiteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "SiteURL", Message: fmt.Sprintf("invalid site URL: %v", err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "SiteURL", Message: fmt.Sprintf("site URL must be absolute, got: %s", raw)}
	}
	return nil
}
