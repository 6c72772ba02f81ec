// Package forms holds the client-side form models. Validation runs before any
// network call so obviously bad input never leaves the device.
package forms

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Login is the sign-in form.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register is the account creation form. Avatar is optional.
type Register struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=client seller"`

	AvatarFilename string    `json:"-" validate:"omitempty,max=255"`
	Avatar         io.Reader `json:"-"`
}

// Product is the seller dashboard create/update form.
type Product struct {
	Name           string   `json:"name" validate:"required,min=2,max=200"`
	Description    string   `json:"description" validate:"max=5000"`
	Category       string   `json:"category" validate:"max=100"`
	Price          string   `json:"price" validate:"required"`
	AvailableStock int      `json:"availableStock" validate:"gte=0"`
	ImageIDs       []string `json:"imageIds" validate:"dive,uuid4"`
}

// Profile is the editable profile form.
type Profile struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=100"`
	Email  string `json:"email" validate:"omitempty,email"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
}

// Validate checks the struct tags and returns a typed validation error whose
// details map field names to human-readable messages.
func Validate(form any) error {
	if err := validate.Struct(form); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "eqfield":
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid url"
	case "uuid4":
		return "must be a valid id"
	}
	return "is invalid"
}
