package controllers

import (
	"context"
	"net/http"

	"github.com/speedyvan/speedyvan-backend/api/responses"
	"github.com/speedyvan/speedyvan-backend/api/validators"
	"github.com/speedyvan/speedyvan-backend/internal/quotes"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
	"github.com/speedyvan/speedyvan-backend/pkg/maps"
)

type addressSuggester interface {
	Autocomplete(ctx context.Context, input string) ([]maps.AutocompleteSuggestion, error)
}

type autocompleteRequest struct {
	Input string `json:"input" validate:"required"`
}

type addressSuggestionResponse struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// AddressAutocomplete returns place suggestions for a partial address.
func AddressAutocomplete(client addressSuggester, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "address lookup not configured"))
			return
		}

		var payload autocompleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		suggestions, err := client.Autocomplete(ctx, payload.Input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]addressSuggestionResponse, 0, len(suggestions))
		for _, s := range suggestions {
			out = append(out, addressSuggestionResponse{PlaceID: s.PlaceID, Description: s.Description})
		}
		responses.WriteSuccess(w, map[string]any{"suggestions": out})
	}
}

type distanceRequest struct {
	PickupAddress  string `json:"pickup_address" validate:"required"`
	DropoffAddress string `json:"dropoff_address" validate:"required"`
}

type distanceResponse struct {
	PickupAddress  string  `json:"pickup_address"`
	DropoffAddress string  `json:"dropoff_address"`
	DistanceKm     float64 `json:"distance_km"`
}

// AddressDistance resolves the driving distance between two addresses. The
// resolver caches by address pair, so repeated lookups while a customer edits
// their booking do not hit the route provider again.
func AddressDistance(resolver quotes.DistanceResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if resolver == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "distance lookup not configured"))
			return
		}

		var payload distanceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		km, err := resolver.Resolve(ctx, payload.PickupAddress, payload.DropoffAddress)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, distanceResponse{
			PickupAddress:  payload.PickupAddress,
			DropoffAddress: payload.DropoffAddress,
			DistanceKm:     km,
		})
	}
}
