package server

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/talentfit/talentfit/internal/models"
)

const (
	minimumAge        = 18
	minPasswordLength = 8
)

func newValidator() *validator.Validate {
	validate := validator.New()

	// Birth date at least 18 years in the past
	validate.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		dob, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return isAdult(dob, time.Now())
	})

	// At least 8 characters with a letter and a digit
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return validPassword(fl.Field().String())
	})

	validate.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		_, err := models.ParseGender(fl.Field().String())
		return err == nil
	})

	return validate
}

func isAdult(dob, now time.Time) bool {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age >= minimumAge
}

func validPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// validationMessage renders validator errors as a single readable sentence
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "adult":
			messages = append(messages, fmt.Sprintf("must be at least %d years old", minimumAge))
		case "password":
			messages = append(messages, fmt.Sprintf("password must be at least %d characters and contain a letter and a digit", minPasswordLength))
		case "gender":
			messages = append(messages, "genero must be one of: masculino, femenino, otro")
		case "len", "numeric":
			messages = append(messages, fmt.Sprintf("%s must be a %s-digit code", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}
