package services

import (
	"errors"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// translate maps repository and validation failures onto apperr kinds.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.NotFoundf("%s not found", what)
	case errors.Is(err, repositories.ErrEmailTaken):
		return apperr.Validationf("Email already in use")
	case errors.As(err, &verrs):
		return apperr.Validationf("%s", models.ValidationMessage(err))
	}
	return apperr.Wrap(err, what)
}

func requireActor(actor auth.Principal) error {
	if !actor.Authenticated() {
		return apperr.ErrNoToken
	}
	return nil
}
