package forms

import (
	"testing"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	if err := Validate(Login{Email: "jane@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	err := Validate(Login{Email: "not-an-email", Password: "short"})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message: %q", details["email"])
	}
	if details["password"] == "" {
		t.Fatal("expected password error")
	}
}

func TestValidateRegisterPasswordMismatch(t *testing.T) {
	t.Parallel()

	err := Validate(Register{
		Name:            "Jane",
		Email:           "jane@example.com",
		Password:        "longenough",
		ConfirmPassword: "different!",
		Role:            "client",
	})
	if err == nil {
		t.Fatal("expected mismatch failure")
	}
	typed := pkgerrors.As(err)
	details := typed.Details().(map[string]string)
	if details["confirmPassword"] != "must match Password" {
		t.Fatalf("unexpected message: %q", details["confirmPassword"])
	}
}

func TestValidateRegisterRole(t *testing.T) {
	t.Parallel()

	err := Validate(Register{
		Name:            "Jane",
		Email:           "jane@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		Role:            "admin",
	})
	if err == nil {
		t.Fatal("expected role failure")
	}
}

func TestValidateProduct(t *testing.T) {
	t.Parallel()

	if err := Validate(Product{Name: "Tea", Price: "9.99", AvailableStock: 5}); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}
	if err := Validate(Product{Name: "", Price: "", AvailableStock: -1}); err == nil {
		t.Fatal("expected product validation failure")
	}
}
