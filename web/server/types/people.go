package types

import (
	"errors"
	"net/mail"
	"strings"
)

// PeoplePostRequestData is the request data to register a person.
type PeoplePostRequestData struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email,omitempty"`
}

// Validate the person data.
func (d PeoplePostRequestData) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if d.Age < 0 || d.Age > 150 {
		errs = append(errs, errors.New("age must be between 0 and 150"))
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			errs = append(errs, errors.New("email is invalid"))
		}
	}

	return errors.Join(errs...)
}

// PeoplePostResponse represents a successful response to a request to register
// a person.
type PeoplePostResponse struct {
	Response
	Person PeoplePostRequestData `json:"person"`
}
