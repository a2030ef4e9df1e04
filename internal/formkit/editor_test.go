package formkit

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func tagSchema() Schema {
	return Schema{
		Resource: "tags",
		Fields: []Field{
			{Name: "name", Kind: Text, Required: true, TitleCased: true},
			{Name: "branch_id", Kind: MultiSelect, Required: true},
			{Name: "status", Kind: Status},
		},
	}
}

func TestOpenCreateDefaults(t *testing.T) {
	e := tagSchema().Open(nil)
	require.False(t, e.IsEdit())
	require.Equal(t, http.MethodPost, e.Verb())
	require.Equal(t, "", e.Get("name"))
	require.Equal(t, []string{}, e.Get("branch_id"))
	require.Equal(t, StatusActive, e.Get("status"))
}

func TestTagCreatePayload(t *testing.T) {
	e := tagSchema().Open(nil)
	e.Set("name", "spa deals")
	e.Set("branch_id", []string{"B1"})

	payload, err := e.Payload("salon-42")
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"name":      "Spa Deals",
		"branch_id": []string{"B1"},
		"status":    1,
		"salon_id":  "salon-42",
	}, payload)
}

func TestSubmitBlockedOnMissingRequired(t *testing.T) {
	e := tagSchema().Open(nil)
	e.Set("name", "spa deals")
	// branch_id never selected

	require.False(t, e.CanSubmit())
	_, err := e.Payload("salon-42")
	require.ErrorIs(t, err, ErrBlocked)
}

func TestValidationStateClearsWhenFieldBecomesValid(t *testing.T) {
	s := Schema{Resource: "managers", Fields: []Field{
		{Name: "email", Kind: Email, Required: true},
	}}
	e := s.Open(nil)

	e.Set("email", "a@b")
	require.Contains(t, e.Errors(), "email")

	e.Set("email", "a@b.com")
	require.NotContains(t, e.Errors(), "email")
}

func TestConfirmPasswordRevalidatesOnEitherChange(t *testing.T) {
	s := Schema{Resource: "managers", Fields: []Field{
		{Name: "password", Kind: Password, Required: true},
		{Name: "confirm_password", Kind: Password, Required: true, Confirms: "password"},
	}}
	e := s.Open(nil)

	e.Set("password", "secret123")
	e.Set("confirm_password", "secret123")
	require.Empty(t, e.Errors())

	// changing the password must flag the stale confirmation
	e.Set("password", "different123")
	require.Contains(t, e.Errors(), "confirm_password")
}

func TestBlankConfirmBlocksChangedPasswordInEdit(t *testing.T) {
	s := Schema{Resource: "managers", Fields: []Field{
		{Name: "password", Kind: Password, Required: true},
		{Name: "confirm_password", Kind: Password, Required: true, Confirms: "password"},
	}}
	e := s.Open(Values{"_id": "m1"})

	// leaving both blank keeps the current password
	require.True(t, e.CanSubmit())

	// a new password with the confirmation left blank must not go through
	e.Set("password", "newpassword123")
	require.False(t, e.CanSubmit())
	require.Contains(t, e.Errors(), "confirm_password")

	e.Set("confirm_password", "newpassword123")
	require.True(t, e.CanSubmit())
}

func TestConfirmationFieldOmittedFromPayload(t *testing.T) {
	s := Schema{Resource: "managers", Fields: []Field{
		{Name: "password", Kind: Password, Required: true},
		{Name: "confirm_password", Kind: Password, Required: true, Confirms: "password"},
	}}
	e := s.Open(nil)
	e.Set("password", "supersecret")
	e.Set("confirm_password", "supersecret")

	payload, err := e.Payload("salon-42")
	require.NoError(t, err)
	require.Equal(t, "supersecret", payload["password"])
	require.NotContains(t, payload, "confirm_password")
}

func TestNumericPrefillKeepsPlainDigits(t *testing.T) {
	s := Schema{Resource: "services", Fields: []Field{
		{Name: "price", Kind: Number, Required: true},
	}}
	// JSON-decoded records carry numbers as float64
	e := s.Open(Values{"_id": "s1", "price": float64(1000000)})
	require.Equal(t, "1000000", e.Get("price"))

	e.Set("price", float64(349.5))
	require.Equal(t, "349.5", e.Get("price"))
}

func TestEditPrefillLeavesPasswordBlank(t *testing.T) {
	s := Schema{Resource: "managers", Fields: []Field{
		{Name: "name", Kind: Text, Required: true},
		{Name: "password", Kind: Password, Required: true},
	}}
	e := s.Open(Values{"_id": "m1", "name": "Asha", "password": "hash-should-not-leak"})

	require.True(t, e.IsEdit())
	require.Equal(t, http.MethodPut, e.Verb())
	require.Equal(t, "m1", e.RecordID())
	require.Equal(t, "Asha", e.Get("name"))
	require.Equal(t, "", e.Get("password"))

	// blank password in edit mode means keep the current one: omitted from payload
	payload, err := e.Payload("salon-42")
	require.NoError(t, err)
	require.NotContains(t, payload, "password")
}

func TestBusinessRuleBlocksSubmit(t *testing.T) {
	ruleErr := errors.New("start date must be before end date")
	s := Schema{
		Resource: "coupons",
		Fields:   []Field{{Name: "code", Kind: Text, Required: true}},
		Rules: []Rule{func(values Values) error {
			return ruleErr
		}},
	}
	e := s.Open(nil)
	e.Set("code", "SAVE10")

	_, err := e.Payload("salon-42")
	require.ErrorIs(t, err, ErrBlocked)
	require.Contains(t, err.Error(), ruleErr.Error())
}

func TestInactiveStatusBecomesZero(t *testing.T) {
	e := tagSchema().Open(nil)
	e.Set("name", "quiet")
	e.Set("branch_id", []string{"B1"})
	e.Set("status", StatusInactive)

	payload, err := e.Payload("salon-42")
	require.NoError(t, err)
	require.Equal(t, 0, payload["status"])
}
