// Package validation turns raw request bodies into typed inputs. It never
// panics on malformed input: failures come back as a *ValidationError that
// lists every violated constraint.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/buildsite-backend/models"
)

// Kind names an insertable entity.
type Kind string

const (
	KindUser           Kind = "user"
	KindLogin          Kind = "login"
	KindWaitlistEntry  Kind = "waitlist"
	KindPageVisit      Kind = "pageVisit"
	KindFormSubmission Kind = "formSubmission"
	KindProject        Kind = "project"
	KindService        Kind = "service"
	KindCompanyInfo    Kind = "companyInfo"
	KindContactMessage Kind = "contactMessage"
	KindContactStatus  Kind = "contactStatus"
)

var sectionPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		_ = validate.RegisterValidation("section", func(fl validator.FieldLevel) bool {
			return sectionPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate parses raw into the input type registered for kind.
func Validate(kind Kind, raw []byte) (any, error) {
	switch kind {
	case KindUser:
		return Decode[models.UserInput](raw)
	case KindLogin:
		return Decode[models.LoginInput](raw)
	case KindWaitlistEntry:
		return Decode[models.WaitlistEntryInput](raw)
	case KindPageVisit:
		return Decode[models.PageVisitInput](raw)
	case KindFormSubmission:
		return Decode[models.FormSubmissionInput](raw)
	case KindProject:
		return Decode[models.ProjectInput](raw)
	case KindService:
		return Decode[models.ServiceInput](raw)
	case KindCompanyInfo:
		return Decode[models.CompanyInfoInput](raw)
	case KindContactMessage:
		return Decode[models.ContactMessageInput](raw)
	case KindContactStatus:
		return Decode[models.ContactStatusInput](raw)
	default:
		return nil, fmt.Errorf("validation: unknown kind %q", kind)
	}
}

// Decode reads the recognised fields of T from raw, trims strings and checks
// the struct's validate tags. Unknown fields are ignored.
func Decode[T any](raw []byte) (T, error) {
	var out T

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return out, &ValidationError{Issues: []Issue{{Field: "body", Message: "must be a JSON object"}}}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return out, &ValidationError{Issues: []Issue{{Field: "body", Message: "must be a JSON object"}}}
	}

	var issues []Issue
	failed := map[string]bool{}

	rv := reflect.ValueOf(&out).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := jsonName(sf)
		if name == "" {
			continue
		}
		rawField, ok := fields[name]
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if err := json.Unmarshal(rawField, fv.Addr().Interface()); err != nil {
			issues = append(issues, Issue{Field: name, Message: typeMessage(sf.Type)})
			failed[name] = true
			fv.Set(reflect.Zero(sf.Type))
			continue
		}
		if sf.Tag.Get("notrim") != "true" {
			trimString(fv)
		}
	}

	if err := instance().Struct(&out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return out, fmt.Errorf("validation: %w", err)
		}
		for _, fe := range verrs {
			if failed[fe.Field()] {
				continue
			}
			issues = append(issues, Issue{Field: fe.Field(), Message: describe(fe)})
		}
	}

	if len(issues) > 0 {
		return out, &ValidationError{Issues: issues}
	}
	return out, nil
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}

func trimString(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		v.SetString(strings.TrimSpace(v.String()))
	case reflect.Pointer:
		if !v.IsNil() && v.Elem().Kind() == reflect.String {
			v.Elem().SetString(strings.TrimSpace(v.Elem().String()))
		}
	}
}

func typeMessage(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == reflect.TypeOf(models.Flag(false)):
		return "must be a boolean"
	case t.Kind() == reflect.String:
		return "must be a string"
	default:
		return fmt.Sprintf("must be of type %s", t.Kind())
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "section":
		return "must contain only lowercase letters, digits, '-' or '_'"
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}
