package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-front-desk/internal/repository"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

// InvalidTransitionError reports a status change the lifecycle forbids.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e InvalidTransitionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
	}
	return fmt.Sprintf("%s %s cannot move from %q to %q", e.Entity, e.ID, e.From, e.To)
}

func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func invalid(field, msg string) error {
	return ValidationError{Field: field, Msg: msg}
}
