package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/speedyvan/speedyvan-backend/internal/coupons"
	"github.com/speedyvan/speedyvan-backend/internal/pricing"
	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	"github.com/speedyvan/speedyvan-backend/pkg/enums"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
	"github.com/speedyvan/speedyvan-backend/pkg/metrics"
)

type couponValidator interface {
	Validate(ctx context.Context, code string) (coupons.Resolution, error)
}

// Service prices delivery requests and persists the accepted figures.
type Service interface {
	CreateQuote(ctx context.Context, input CreateQuoteInput) (*QuoteResult, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	SuggestTier(items []ItemInput) (enums.ServiceTier, error)
}

type service struct {
	engine   *pricing.Engine
	repo     Repository
	coupons  couponValidator
	distance DistanceResolver
	metrics  *metrics.QuoteMetrics
	logg     *logger.Logger
}

// NewService builds the quote service.
func NewService(engine *pricing.Engine, repo Repository, couponSvc couponValidator, distance DistanceResolver, m *metrics.QuoteMetrics, logg *logger.Logger) (Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	return &service{
		engine:   engine,
		repo:     repo,
		coupons:  couponSvc,
		distance: distance,
		metrics:  m,
		logg:     logg,
	}, nil
}

func (s *service) CreateQuote(ctx context.Context, input CreateQuoteInput) (*QuoteResult, error) {
	started := time.Now()

	distanceKm, err := s.resolveDistance(ctx, input)
	if err != nil {
		s.metrics.IncRejected(rejectionReason(err))
		return nil, err
	}

	resolution, err := s.resolveCoupon(ctx, input.CouponCode)
	if err != nil {
		s.metrics.IncRejected(rejectionReason(err))
		return nil, err
	}

	selections, err := mapItems(input.Items)
	if err != nil {
		s.metrics.IncRejected(rejectionReason(err))
		return nil, err
	}

	tier := enums.ServiceTier(strings.TrimSpace(input.ServiceTier))
	if tier == "" {
		tier = enums.ServiceTierSingleWorker
	}

	breakdown, err := s.engine.ComputeQuote(pricing.QuoteRequest{
		DistanceKm:     distanceKm,
		Items:          selections,
		ServiceTier:    tier,
		FlexibleTime:   input.FlexibleTime,
		CouponFraction: resolution.Fraction,
	})
	if err != nil {
		s.metrics.IncRejected(rejectionReason(err))
		return nil, err
	}

	record := s.buildRecord(input, distanceKm, tier, resolution, selections, breakdown)
	saved, err := s.repo.CreateQuote(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist quote")
	}

	if s.logg != nil {
		ctx = s.logg.WithQuoteID(ctx, saved.ID.String())
		s.logg.Info(ctx, fmt.Sprintf("quote created: %s total %s", tier, breakdown.Total.StringFixed(2)))
	}

	s.metrics.IncAccepted(tier.String())
	s.metrics.ObserveDuration(tier.String(), time.Since(started))
	total, _ := breakdown.Total.Float64()
	s.metrics.ObserveTotal(tier.String(), total)

	return &QuoteResult{Quote: saved, Coupon: resolution}, nil
}

func (s *service) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	quote, err := s.repo.FindQuoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func (s *service) SuggestTier(items []ItemInput) (enums.ServiceTier, error) {
	selections, err := mapItems(items)
	if err != nil {
		return "", err
	}
	return s.engine.SuggestServiceTier(selections), nil
}

func (s *service) resolveDistance(ctx context.Context, input CreateQuoteInput) (float64, error) {
	if input.DistanceKm != nil {
		return *input.DistanceKm, nil
	}
	origin := strings.TrimSpace(input.PickupAddress)
	destination := strings.TrimSpace(input.DropoffAddress)
	if origin == "" || destination == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "pickup and dropoff addresses are required when no distance is given")
	}
	if s.distance == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "distance resolution is not configured")
	}
	return s.distance.Resolve(ctx, origin, destination)
}

func (s *service) resolveCoupon(ctx context.Context, code string) (coupons.Resolution, error) {
	if strings.TrimSpace(code) == "" {
		return coupons.Resolution{Fraction: decimal.Zero}, nil
	}
	return s.coupons.Validate(ctx, code)
}

func (s *service) buildRecord(input CreateQuoteInput, distanceKm float64, tier enums.ServiceTier, resolution coupons.Resolution, selections []pricing.ItemSelection, breakdown pricing.QuoteBreakdown) *models.Quote {
	record := &models.Quote{
		PickupAddress:    strings.TrimSpace(input.PickupAddress),
		DropoffAddress:   strings.TrimSpace(input.DropoffAddress),
		DistanceKm:       distanceKm,
		ServiceTier:      tier,
		FlexibleTime:     input.FlexibleTime,
		RateTableVersion: s.engine.Table().Version(),
		Currency:         enums.CurrencyGBP,
		BasePrice:        breakdown.BasePrice,
		DistanceCost:     breakdown.DistanceCost,
		ItemCost:         breakdown.ItemCost,
		WorkerCost:       breakdown.WorkerCost,
		Subtotal:         breakdown.Subtotal,
		DiscountApplied:  breakdown.DiscountApplied,
		Total:            breakdown.Total,
	}
	if resolution.Valid {
		code := resolution.Code
		record.CouponCode = &code
	}

	for _, sel := range selections {
		if sel.ItemType == "" || sel.Size == "" {
			continue
		}
		rate := s.engine.Table().UnitRate(sel.ItemType, sel.Size, sel.IsCustom)
		line := models.QuoteItem{
			ItemType: sel.ItemType,
			Size:     sel.Size,
			Quantity: sel.Quantity,
			IsCustom: sel.IsCustom,
			UnitRate: rate,
			LineCost: rate.Mul(decimal.NewFromInt(int64(sel.Quantity))),
		}
		if sel.IsCustom && sel.CustomName != "" {
			name := sel.CustomName
			line.CustomName = &name
		}
		record.Items = append(record.Items, line)
	}

	return record
}

func mapItems(items []ItemInput) ([]pricing.ItemSelection, error) {
	selections := make([]pricing.ItemSelection, 0, len(items))
	for _, item := range items {
		sel := pricing.ItemSelection{
			Quantity:   item.Quantity,
			IsCustom:   item.IsCustom,
			CustomName: strings.TrimSpace(item.CustomName),
		}

		rawType := strings.TrimSpace(item.Type)
		if rawType != "" {
			parsed, err := enums.ParseItemType(rawType)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			sel.ItemType = parsed
			if parsed == enums.ItemTypeCustom {
				sel.IsCustom = true
			}
		}

		rawSize := strings.TrimSpace(item.Size)
		if rawSize != "" {
			parsed, err := enums.ParseItemSize(rawSize)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			sel.Size = parsed
		}

		selections = append(selections, sel)
	}
	return selections, nil
}

func rejectionReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "internal"
}
