package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/pkg/validate"
)

type contactInput struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
	Website string `json:"website" validate:"nullable,url"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(contactInput{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Logo design",
		Message: "Looking for a designer.",
	})
	require.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(contactInput{})
	require.True(t, validate.HasErrors(errs))
	for _, field := range []string{"name", "email", "subject", "message"} {
		require.Contains(t, errs, field)
	}
	// nullable field stays clean when empty
	require.NotContains(t, errs, "website")
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	require.Contains(t, errs, "email")

	errs = validate.Struct(in{Email: "valid@example.com"})
	require.Empty(t, errs)
}

func TestInRuleKeepsCommaValues(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=NEW,READ,REPLIED,CLOSED"`
	}
	require.Empty(t, validate.Struct(in{Status: "READ"}))
	require.Contains(t, validate.Struct(in{Status: "ARCHIVED"}), "status")
}

func TestMinParamNeverSwallowsTheNextRule(t *testing.T) {
	// "min=" ends in "in=": the splitter must not treat its parameter
	// as a value list, or an unrecognised trailing rule would merge
	// into the min parameter and disable it.
	type in struct {
		Code string `json:"code" validate:"min=3,size=5"`
	}
	require.Contains(t, validate.Struct(in{Code: "ab"}), "code")
	require.Empty(t, validate.Struct(in{Code: "abcd"}))
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Amount float64 `json:"amount" validate:"required,numeric,gte=1"`
	}
	require.Contains(t, validate.Struct(in{Amount: 0}), "amount") // zero fails required
	require.Contains(t, validate.Struct(in{Amount: 0.5}), "amount")
	require.Empty(t, validate.Struct(in{Amount: 499.0}))
}

func TestMinMaxOnStrings(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2,max=5"`
	}
	require.Contains(t, validate.Struct(in{Name: "a"}), "name")
	require.Contains(t, validate.Struct(in{Name: "abcdef"}), "name")
	require.Empty(t, validate.Struct(in{Name: "abc"}))
}
