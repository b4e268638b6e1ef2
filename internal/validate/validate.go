// Package validate is the request/field validation layer. It wraps
// go-playground/validator with the site's custom rules and turns violations
// into a flat list of human messages, independent of the storage schema.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"studio-site-api/internal/domain"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is every violation found in one pass.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ". ")
}

func (e Errors) Unwrap() error { return domain.ErrValidation }

var (
	socialPatterns = map[string]*regexp.Regexp{
		"github_url":   regexp.MustCompile(`^https?://(www\.)?github\.com/.+`),
		"linkedin_url": regexp.MustCompile(`^https?://(www\.)?linkedin\.com/.+`),
		"twitter_url":  regexp.MustCompile(`^https?://(www\.)?twitter\.com/.+`),
		"dribbble_url": regexp.MustCompile(`^https?://(www\.)?dribbble\.com/.+`),
		"behance_url":  regexp.MustCompile(`^https?://(www\.)?behance\.net/.+`),
	}
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]{7,15}$`)
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)
)

type Validator struct {
	v *validator.Validate
}

var std = New()

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	for tag, re := range socialPatterns {
		re := re
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("site_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		return IsID(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Struct validates with the package-level validator.
func Struct(s any) error { return std.Struct(s) }

func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate: %w", err)
	}
	root := reflect.TypeOf(s)
	out := make(Errors, 0, len(ve))
	seen := make(map[string]bool, len(ve))
	for _, fe := range ve {
		msg := message(root, fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, FieldError{Field: fieldPath(fe.Namespace()), Message: msg})
	}
	return out
}

// StrongPassword requires at least one letter and one digit.
func StrongPassword(pw string) bool {
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// fieldPath drops the root struct name: "createReq.title.en" -> "title.en".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// message prefers the `msg` tag of the offending struct field, falling back
// to a generic sentence per rule.
func message(root reflect.Type, fe validator.FieldError) string {
	if f, elem, ok := structField(root, fe.StructNamespace()); ok {
		key := "msg"
		if elem {
			key = "msgelem"
		}
		if m := f.Tag.Get(key); m != "" {
			return m
		}
	}
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at most %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "oneof":
		return "Invalid " + field
	case "email", "site_email":
		return "Please provide a valid email"
	case "url", "http_url":
		return "Invalid " + field + " URL"
	case "entity_id":
		return "Invalid " + field + " ID"
	}
	if _, ok := socialPatterns[fe.Tag()]; ok {
		return "Please provide a valid " + field + " URL"
	}
	return fmt.Sprintf("%s is invalid", field)
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

// structField resolves a validator struct namespace back to its field. elem
// reports whether the error is about an element of that field (dive).
func structField(t reflect.Type, ns string) (f reflect.StructField, elem bool, ok bool) {
	parts := strings.Split(ns, ".")
	if len(parts) < 2 {
		return f, false, false
	}
	for _, p := range parts[1:] {
		elem = false
		if i := strings.IndexByte(p, '['); i >= 0 {
			p, elem = p[:i], true
		}
		t = indirect(t)
		if t.Kind() != reflect.Struct {
			return f, false, false
		}
		if f, ok = t.FieldByName(p); !ok {
			return f, false, false
		}
		t = f.Type
	}
	return f, elem, true
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	return t
}
