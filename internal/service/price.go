package service

import (
	"context"

	"artistconnection/internal/domain"
)

type PriceRepository interface {
	CardPricesByLookups(ctx context.Context, lookups []domain.CardLookup) ([]domain.CardPrice, error)
	CardKingdomPricesByNames(ctx context.Context, names []string) ([]domain.CardKingdomPrice, error)
	CardKingdomPricesByScryfallIDs(ctx context.Context, scryfallIDs []string) ([]domain.CardKingdomPrice, error)
}

type PriceService struct {
	priceRepo PriceRepository
}

func NewPriceService(priceRepo PriceRepository) *PriceService {
	return &PriceService{priceRepo: priceRepo}
}

func (s *PriceService) CardPricesByCards(ctx context.Context, lookups []domain.CardLookup) ([]domain.CardPrice, error) {
	return s.priceRepo.CardPricesByLookups(ctx, lookups)
}

func (s *PriceService) CardKingdomPricesByNames(ctx context.Context, names []string) ([]domain.CardKingdomPrice, error) {
	return s.priceRepo.CardKingdomPricesByNames(ctx, names)
}

func (s *PriceService) CardKingdomPricesByScryfallIDs(ctx context.Context, ids []string) ([]domain.CardKingdomPrice, error) {
	return s.priceRepo.CardKingdomPricesByScryfallIDs(ctx, ids)
}
