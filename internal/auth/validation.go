package auth

import (
	"errors"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
	maxEmailLength    = 254
)

// fieldRules pairs a field's value with its rules. Every rule runs, so a
// single field can contribute several messages.
type fieldRules struct {
	value any
	rules []validation.Rule
}

// emailFormat checks syntax only, no DNS lookups. Unlike ozzo's string
// rules it also fails on an empty value.
func emailFormat(message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if !govalidator.IsEmail(s) {
			return errors.New(message)
		}
		return nil
	})
}

// minRunes fails on empty values too, which validation.Length skips.
func minRunes(minLen int, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if utf8.RuneCountInString(s) < minLen {
			return errors.New(message)
		}
		return nil
	})
}

func registrationRules(email, password string) []fieldRules {
	return []fieldRules{
		{
			value: email,
			rules: []validation.Rule{
				validation.Required.Error("email should not be empty"),
				emailFormat("email must be an email"),
				validation.Length(0, maxEmailLength).Error("email must be shorter than or equal to 254 characters"),
			},
		},
		{
			value: password,
			rules: []validation.Rule{
				validation.Required.Error("password should not be empty"),
				minRunes(minPasswordLength, "password must be longer than or equal to 8 characters"),
				validation.Length(0, maxPasswordLength).Error("password must be shorter than or equal to 72 characters"),
			},
		},
	}
}

// validateRegistration returns a *ValidationError listing every failed rule,
// email rules first, in declaration order.
func validateRegistration(email, password string) error {
	var messages []string
	for _, field := range registrationRules(email, password) {
		for _, rule := range field.rules {
			if err := validation.Validate(field.value, rule); err != nil {
				messages = append(messages, err.Error())
			}
		}
	}

	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
