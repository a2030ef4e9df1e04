// Package validate holds the field-level checks shared by every entity form:
// phone, email, password, cross-field confirmation and the title-case
// normalizer applied to free-text fields before submission.
package validate

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Result reports a single field check.
type Result struct {
	Valid   bool
	Message string
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

func ok() Result             { return Result{Valid: true} }
func fail(msg string) Result { return Result{Valid: false, Message: msg} }

// Phone accepts any string containing at least ten digits once everything
// else is stripped.
func Phone(raw string) Result {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) < 10 {
		return fail("Phone number must contain at least 10 digits")
	}
	return ok()
}

// Email checks the address shape including a TLD; "a@b" is rejected.
func Email(raw string) Result {
	if !emailPattern.MatchString(raw) {
		return fail("Enter a valid email address")
	}
	return ok()
}

// Password enforces the create-mode minimum length. Edit mode skips the check
// entirely when the field is left blank.
func Password(raw string) Result {
	if len(raw) < 8 {
		return fail("Password must be at least 8 characters")
	}
	return ok()
}

// ConfirmPassword must be re-run whenever either field changes.
func ConfirmPassword(password, confirm string) Result {
	if password != confirm {
		return fail("Passwords do not match")
	}
	return ok()
}

// Required rejects empty or whitespace-only values.
func Required(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return fail("This field is required")
	}
	return ok()
}

// TitleCase lower-cases the input, splits on whitespace dropping empty
// tokens, upper-cases each token's first character and rejoins with single
// spaces. Idempotent; empty in, empty out.
func TitleCase(raw string) string {
	// cases.Caser carries state and is not safe for concurrent use, so one is
	// built per call.
	caser := cases.Title(language.English)
	fields := strings.Fields(strings.ToLower(raw))
	for i, f := range fields {
		fields[i] = caser.String(f)
	}
	return strings.Join(fields, " ")
}
