package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/maps"
)

type stubSuggester struct {
	suggestions []maps.AutocompleteSuggestion
	err         error
	lastInput   string
}

func (s *stubSuggester) Autocomplete(_ context.Context, input string) ([]maps.AutocompleteSuggestion, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

type stubDistanceResolver struct {
	km   float64
	err  error
	last [2]string
}

func (s *stubDistanceResolver) Resolve(_ context.Context, origin, destination string) (float64, error) {
	s.last = [2]string{origin, destination}
	if s.err != nil {
		return 0, s.err
	}
	return s.km, nil
}

func TestAddressAutocompleteReturnsSuggestions(t *testing.T) {
	svc := &stubSuggester{suggestions: []maps.AutocompleteSuggestion{
		{PlaceID: "place-1", Description: "140 Charles Street, Glasgow"},
	}}
	handler := AddressAutocomplete(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses/autocomplete", bytes.NewReader([]byte(`{"input": "140 Charles"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastInput != "140 Charles" {
		t.Fatalf("unexpected input: %q", svc.lastInput)
	}
	var envelope struct {
		Data struct {
			Suggestions []addressSuggestionResponse `json:"suggestions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Suggestions) != 1 || envelope.Data.Suggestions[0].PlaceID != "place-1" {
		t.Fatalf("unexpected suggestions: %+v", envelope.Data.Suggestions)
	}
}

func TestAddressAutocompleteRequiresInput(t *testing.T) {
	handler := AddressAutocomplete(&stubSuggester{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses/autocomplete", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddressAutocompleteWithoutClient(t *testing.T) {
	handler := AddressAutocomplete(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses/autocomplete", bytes.NewReader([]byte(`{"input": "x"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAddressDistanceResolvesPair(t *testing.T) {
	resolver := &stubDistanceResolver{km: 12.5}
	handler := AddressDistance(resolver, nil)

	body := []byte(`{"pickup_address": "Glasgow", "dropoff_address": "Edinburgh"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses/distance", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolver.last != [2]string{"Glasgow", "Edinburgh"} {
		t.Fatalf("unexpected pair: %+v", resolver.last)
	}
	var envelope struct {
		Data distanceResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.DistanceKm != 12.5 {
		t.Fatalf("unexpected distance: %v", envelope.Data.DistanceKm)
	}
}

func TestAddressDistanceRequiresBothAddresses(t *testing.T) {
	handler := AddressDistance(&stubDistanceResolver{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses/distance", bytes.NewReader([]byte(`{"pickup_address": "Glasgow"}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddressDistancePropagatesProviderFailure(t *testing.T) {
	resolver := &stubDistanceResolver{err: pkgerrors.New(pkgerrors.CodeDependency, "no route found")}
	handler := AddressDistance(resolver, nil)

	body := []byte(`{"pickup_address": "Glasgow", "dropoff_address": "Reykjavik"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/addresses/distance", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
