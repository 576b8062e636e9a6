package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeDependency, cause, "lookup failed")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeInvalidDistance, "distance must be positive")
	wrapped := fmt.Errorf("computing quote: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeInvalidDistance {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeInvalidQuote, "total not chargeable")
	if !HasCode(err, CodeInvalidQuote) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeInvalidDistance) {
		t.Fatal("did not expect HasCode to match a different code")
	}
	if HasCode(errors.New("plain"), CodeInvalidQuote) {
		t.Fatal("plain errors carry no code")
	}
}

func TestMetadataForPricingCodes(t *testing.T) {
	if got := MetadataFor(CodeInvalidDistance).HTTPStatus; got != http.StatusBadRequest {
		t.Fatalf("invalid distance should map to 400, got %d", got)
	}
	if got := MetadataFor(CodeInvalidQuote).HTTPStatus; got != http.StatusUnprocessableEntity {
		t.Fatalf("invalid quote should map to 422, got %d", got)
	}
	if got := MetadataFor(Code("UNKNOWN")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown codes fall back to 500, got %d", got)
	}
}
