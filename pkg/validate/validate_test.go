package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/neubistro/bistro/pkg/validate"
)

type registerInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"nullable,max=10"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{Email: "a@x.com", Password: "secret1"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(&registerInput{})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password to be required")
	}
	if _, ok := errs["name"]; ok {
		t.Error("nullable name must not be reported")
	}
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(registerInput{Email: "not-an-email", Password: "secret1"})
	if errs["email"] != "The email must be a valid email address." {
		t.Errorf("unexpected email message: %q", errs["email"])
	}
}

func TestMinLength(t *testing.T) {
	errs := validate.Struct(registerInput{Email: "a@x.com", Password: "12345"})
	if errs["password"] != "The password must be at least 6 characters." {
		t.Errorf("unexpected password message: %q", errs["password"])
	}
}

func TestMaxLengthCountsRunes(t *testing.T) {
	if errs := validate.Struct(registerInput{Email: "a@x.com", Password: "secret1", Name: "ééééééééé"}); validate.HasErrors(errs) {
		t.Errorf("9 runes should fit max=10, got: %v", errs)
	}
	if errs := validate.Struct(registerInput{Email: "a@x.com", Password: "secret1", Name: "abcdefghijk"}); !validate.HasErrors(errs) {
		t.Error("expected 11 chars to exceed max=10")
	}
}

func TestPositiveDecimal(t *testing.T) {
	type in struct {
		Price decimal.Decimal `json:"price" validate:"required,positive"`
	}

	if errs := validate.Struct(in{}); errs["price"] != "The price field is required." {
		t.Errorf("expected required error, got: %v", errs)
	}
	if errs := validate.Struct(in{Price: decimal.RequireFromString("-1.50")}); errs["price"] == "" {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: decimal.RequireFromString("12.99")}); validate.HasErrors(errs) {
		t.Errorf("expected 12.99 to pass, got: %v", errs)
	}
}

func TestPositiveInt(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"positive"`
	}
	if errs := validate.Struct(in{Quantity: 0}); !validate.HasErrors(errs) {
		t.Error("expected zero quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 3}); validate.HasErrors(errs) {
		t.Errorf("expected 3 to pass, got: %v", errs)
	}
}

func TestNullableURL(t *testing.T) {
	type in struct {
		Image *string `json:"image" validate:"nullable,url"`
	}

	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("nil image should pass, got: %v", errs)
	}

	bad := "ftp://host/file.png"
	if errs := validate.Struct(in{Image: &bad}); errs["image"] == "" {
		t.Error("expected ftp URL to fail")
	}

	good := "https://images.unsplash.com/photo-1"
	if errs := validate.Struct(in{Image: &good}); validate.HasErrors(errs) {
		t.Errorf("expected https URL to pass, got: %v", errs)
	}
}

func TestGreaterThan(t *testing.T) {
	type in struct {
		ID uint `json:"id" validate:"gt=0"`
	}
	if errs := validate.Struct(in{ID: 0}); !validate.HasErrors(errs) {
		t.Error("expected id 0 to fail gt=0")
	}
}

func TestNonStructInput(t *testing.T) {
	if errs := validate.Struct(42); validate.HasErrors(errs) {
		t.Errorf("non-struct input should yield no errors, got: %v", errs)
	}
}
