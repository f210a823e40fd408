package service

import (
	"context"

	"github.com/02loveslollipop/MiPedido/internal/repositories"
	"github.com/02loveslollipop/MiPedido/models"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
	"github.com/02loveslollipop/MiPedido/pkg/shortener"
)

// ShortenerServiceInterface produces shareable short codes for orders and
// resolves them back to order ids.
type ShortenerServiceInterface interface {
	CreateShortCode(ctx context.Context, orderID string) (string, error)
	ResolveShortCode(ctx context.Context, code string) (string, error)
}

type ShortenerService struct {
	orderRepo repositories.OrderRepositoryInterface
	logger    *logger.Logger
}

func NewShortenerService(orderRepo repositories.OrderRepositoryInterface, log *logger.Logger) *ShortenerService {
	return &ShortenerService{
		orderRepo: orderRepo,
		logger:    log.WithComponent("shortener_service"),
	}
}

// CreateShortCode encodes an existing order's id. The id must reference a
// stored order; a code for a nonexistent record would never resolve.
func (s *ShortenerService) CreateShortCode(ctx context.Context, orderID string) (string, error) {
	oid, err := parseOrderID(orderID)
	if err != nil {
		return "", err
	}

	if _, err := s.orderRepo.GetByID(ctx, oid); err != nil {
		return "", err
	}

	timestamp, counter := shortener.Encode(oid)
	code := shortener.ToCode(counter, timestamp)

	s.logger.Info("Short code created", "order_id", orderID, "short_code", code)
	return code, nil
}

// ResolveShortCode reconstructs the truncated (timestamp, counter) pair,
// scans stored orders whose id carries the counter suffix and returns the
// one whose truncated timestamp also matches. The encoding is lossy, so the
// verify step exists to reject near-miss candidates, not to find the record
// by direct lookup.
func (s *ShortenerService) ResolveShortCode(ctx context.Context, code string) (string, error) {
	timestamp, counter, err := shortener.FromCode(code)
	if err != nil {
		s.logger.Warn("Malformed short code", "short_code", code)
		return "", err
	}

	candidates, err := s.orderRepo.FindByCounter(ctx, counter)
	if err != nil {
		return "", err
	}

	for _, id := range candidates {
		if shortener.Matches(id, timestamp, counter) {
			s.logger.Info("Short code resolved", "short_code", code, "order_id", id.Hex())
			return id.Hex(), nil
		}
	}

	s.logger.Warn("Short code did not resolve", "short_code", code, "candidates", len(candidates))
	return "", models.ErrOrderNotFound
}
