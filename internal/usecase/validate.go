package usecase

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

const maxAliasLength = 64

var aliasRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Route names served next to the public alias path.
var reservedAliases = map[string]struct{}{
	"urls":    {},
	"ping":    {},
	"swagger": {},
	"docs":    {},
}

func isReservedAlias(alias string) bool {
	_, ok := reservedAliases[strings.ToLower(alias)]
	return ok
}

func isValidAlias(alias string) bool {
	return len(alias) <= maxAliasLength && aliasRe.MatchString(alias)
}

// isWebURL accepts absolute URLs whose host has a final label of at least two
// characters and at least one label of two or more characters before it.
func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}

	labels := strings.Split(u.Hostname(), ".")
	if len(labels) < 2 || len(labels[len(labels)-1]) < 2 {
		return false
	}

	for _, l := range labels[:len(labels)-1] {
		if len(l) >= 2 {
			return true
		}
	}

	return false
}

type createLinkInput struct {
	URL         string `json:"url" validate:"required,url,weburl"`
	Alias       string `json:"alias" validate:"omitempty,max=64,alias,notreserved"`
	Fingerprint string `json:"fingerprint" validate:"omitempty,max=128"`
}

type updateLinkInput struct {
	URL   *string `json:"url" validate:"omitempty,url,weburl"`
	Alias *string `json:"alias" validate:"omitempty,max=64,alias,notreserved"`
}

func newValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = validate.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return isWebURL(fl.Field().String())
	})
	_ = validate.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
		return aliasRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !isReservedAlias(fl.Field().String())
	})

	return validate
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "url", "weburl":
		return "Please enter a valid URL"
	case "alias":
		return "Alias can only contain letters, numbers, underscores, and dashes"
	case "notreserved":
		return "This alias is reserved."
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", param)
	default:
		return "Invalid value."
	}
}

// toValidationError converts validator errors into an entity.ValidationError.
// Other errors are returned unchanged.
func toValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	vErr := &entity.ValidationError{
		Fields: make([]entity.FieldError, 0, len(errs)),
	}

	for _, e := range errs {
		vErr.Fields = append(vErr.Fields, entity.FieldError{
			Field:   e.Field(),
			Message: messageForTag(e.Tag(), e.Param()),
		})
	}

	return vErr
}
