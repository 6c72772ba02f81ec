package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsWrappedTypedErrors(t *testing.T) {
	t.Parallel()

	inner := New(CodeValidation, "quantity must be positive")
	wrapped := fmt.Errorf("applying cart mutation: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error from wrapped chain")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeNetwork, cause, "login request failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if got := err.Error(); got != "NETWORK_ERROR: login request failed" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestMetadataForUnknownCodeDefaultsInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(New(CodeValidation, "email is required"), "fallback"); got != "email is required" {
		t.Fatalf("typed message should win, got %q", got)
	}
	if got := PublicMessage(New(CodeNetwork, ""), "fallback"); got != "something went wrong, please try again" {
		t.Fatalf("empty typed message should use code default, got %q", got)
	}
	if got := PublicMessage(stdErrors.New("dial tcp: i/o timeout"), "login failed"); got != "login failed" {
		t.Fatalf("raw errors must not leak, got %q", got)
	}
}

func TestDumpBuildsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodePersistence, stdErrors.New("disk full"), "persist cart")
	d := Dump(err)
	if d.Code != CodePersistence {
		t.Fatalf("unexpected code: %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two entries in chain, got %d", len(d.Chain))
	}
}
