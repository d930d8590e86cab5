package crud

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapSubmitError(t *testing.T) {
	fields := []string{"first_name", "email", "salary"}
	codes := map[string]string{"DUPLICATE_EMAIL": "email"}
	hints := []FieldHint{{Contains: "Email", Field: "email"}}

	cases := []struct {
		name   string
		status int
		body   string
		want   ValidationErrors
	}{
		{
			name:   "field map wins over everything",
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"Email 'a@b.c' is already in use","code":"DUPLICATE_EMAIL","errors":{"salary":"Salary too high"}}`,
			want:   ValidationErrors{"salary": "Salary too high"},
		},
		{
			name:   "field list takes the first message",
			status: http.StatusUnprocessableEntity,
			body:   `{"errors":{"first_name":["First name is required","too short"]}}`,
			want:   ValidationErrors{"first_name": "First name is required"},
		},
		{
			name:   "unknown keys fold into general",
			status: http.StatusBadRequest,
			body:   `{"errors":{"email":"taken","tenant":"not yours"}}`,
			want:   ValidationErrors{"email": "taken", GeneralKey: "not yours"},
		},
		{
			name:   "meta field points at the field",
			status: http.StatusConflict,
			body:   `{"success":false,"message":"Already in use","code":"CONFLICT","meta":{"field":"email"}}`,
			want:   ValidationErrors{"email": "Already in use"},
		},
		{
			name:   "code maps to field",
			status: http.StatusConflict,
			body:   `{"success":false,"message":"Already in use","code":"DUPLICATE_EMAIL"}`,
			want:   ValidationErrors{"email": "Already in use"},
		},
		{
			name:   "message hint is the last resort before general",
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"Email 'a@b.c' is already in use","error":400}`,
			want:   ValidationErrors{"email": "Email 'a@b.c' is already in use"},
		},
		{
			name:   "plain message is general",
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"Department is locked"}`,
			want:   ValidationErrors{GeneralKey: "Department is locked"},
		},
		{
			name:   "no message uses the default",
			status: http.StatusInternalServerError,
			body:   ``,
			want:   ValidationErrors{GeneralKey: DefaultSubmitError},
		},
		{
			name:   "success false on a 200",
			status: http.StatusOK,
			body:   `{"success":false,"message":"Could not save"}`,
			want:   ValidationErrors{GeneralKey: "Could not save"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := apiResource(t, respond(tc.status, tc.body))
			_, err := res.Create(context.Background(), map[string]string{})
			require.Error(t, err)

			got := MapSubmitError(err, fields, codes, hints, quietLogger())

			require.Equal(t, tc.want, got)
		})
	}
}

func TestMapSubmitError_NonAPIErrors(t *testing.T) {
	fields := []string{"name"}

	got := MapSubmitError(errors.New("dial tcp: refused"), fields, nil, nil, nil)
	require.Equal(t, ValidationErrors{GeneralKey: DefaultSubmitError}, got)

	got = MapSubmitError(ValidationErrors{"name": "bad", "other": "x"}, fields, nil, nil, nil)
	require.Equal(t, ValidationErrors{"name": "bad", GeneralKey: "x"}, got)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{"b": "second", "a": "first"}
	require.Equal(t, "validation failed: a: first; b: second", errs.Error())
	require.ErrorIs(t, errs, ErrValidation)

	folded := ValidationErrors{GeneralKey: "top", "x": "one", "y": "two"}.restrict([]string{"y"})
	require.Equal(t, ValidationErrors{"y": "two", GeneralKey: "top; one"}, folded)
}
