package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInsufficientStock, status: http.StatusUnprocessableEntity, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeStorage, status: http.StatusServiceUnavailable, publicMsg: "storage unavailable", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeStorage, cause, "persist item")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeStorage {
		t.Fatalf("expected storage code, got %s", err.Code())
	}
	if err.Error() != "STORAGE_ERROR: persist item" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "empty name")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeInsufficientStock, "not enough on hand")
	wrapped := Wrap(CodeStorage, inner, "issue stock")

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStorage {
		t.Fatalf("expected outermost code, got %s", typed.Code())
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"name": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("io failure")
	err := Wrap(CodeStorage, cause, "append ledger entry")

	dump := Dump(err)
	if dump.Code != CodeStorage {
		t.Fatalf("expected storage code, got %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", dump.Chain)
	}
}
