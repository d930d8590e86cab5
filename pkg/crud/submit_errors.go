package crud

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/pkg/apiclient"
)

// MapSubmitError turns a failed create/update into the Validation Error
// Set shown in the modal. In order of preference: the server's field map,
// a structured code pointing at a field, a message hint, a general error.
func MapSubmitError(err error, fields []string, codeFields map[string]string, hints []FieldHint, log *logrus.Logger) ValidationErrors {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.restrict(fields)
	}

	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return ValidationErrors{GeneralKey: DefaultSubmitError}
	}

	if len(apiErr.Errors) > 0 {
		return ValidationErrors(apiErr.Errors).restrict(fields)
	}

	message := apiErr.Message
	if message == "" {
		message = DefaultSubmitError
	}

	field := apiErr.Field()
	if field == "" && apiErr.Code != "" {
		field = codeFields[apiErr.Code]
	}
	if field != "" && contains(fields, field) {
		return ValidationErrors{field: message}
	}

	if apiErr.Message != "" {
		for _, hint := range hints {
			if hint.Contains != "" && strings.Contains(apiErr.Message, hint.Contains) && contains(fields, hint.Field) {
				if log != nil {
					log.WithFields(logrus.Fields{
						"field": hint.Field,
						"hint":  hint.Contains,
					}).Warn("mapped server message to a field by substring; the API should send a structured error")
				}
				return ValidationErrors{hint.Field: apiErr.Message}
			}
		}
	}

	return ValidationErrors{GeneralKey: message}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
