package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
)

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message
}

func TestWriteSuccessEnvelopesData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestWriteErrorMapsTypedCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", pkgerrors.New(pkgerrors.CodeValidation, "pickup address is required"), http.StatusBadRequest, string(pkgerrors.CodeValidation)},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "quote not found"), http.StatusNotFound, string(pkgerrors.CodeNotFound)},
		{"invalid quote", pkgerrors.New(pkgerrors.CodeInvalidQuote, "unable to calculate a price"), http.StatusUnprocessableEntity, string(pkgerrors.CodeInvalidQuote)},
		{"rate limit", pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"), http.StatusTooManyRequests, string(pkgerrors.CodeRateLimit)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			code, _ := decodeErrorEnvelope(t, rec)
			if code != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, code)
			}
		})
	}
}

func TestWriteErrorPassesThroughClientMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))

	_, msg := decodeErrorEnvelope(t, rec)
	if msg != "quantity must be at least 1" {
		t.Fatalf("expected message passthrough, got %q", msg)
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "pricing table corrupted"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	_, msg := decodeErrorEnvelope(t, rec)
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	code, _ := decodeErrorEnvelope(t, rec)
	if code != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code, got %s", code)
	}
}
