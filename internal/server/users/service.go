package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/saolsen/gameplay-computer/internal/common"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"github.com/saolsen/gameplay-computer/internal/server/metrics"
)

type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Service{repo: repo, logger: logger.With("module", "users")}
}

// Sync makes sure the users table holds the profile in claims and returns
// the stored row. Nothing is written when the row is already up to date.
//
// Two concurrent syncs of the same identity both upsert; the last write wins
// and both return a valid row.
func (s *Service) Sync(ctx context.Context, claims auth.ClerkUser) (*User, error) {
	want := FromClaims(claims)

	existing, err := s.repo.GetByClerkID(ctx, want.ClerkID)
	switch {
	case err == nil && existing.sameProfile(want):
		metrics.UserSyncs.WithLabelValues(metrics.SyncUnchanged).Inc()
		return existing, nil
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		metrics.UserSyncs.WithLabelValues(metrics.SyncError).Inc()
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := s.repo.Upsert(ctx, want); err != nil {
		metrics.UserSyncs.WithLabelValues(metrics.SyncError).Inc()
		return nil, fmt.Errorf("error saving user: %w", err)
	}

	stored, err := s.repo.GetByClerkID(ctx, want.ClerkID)
	if err != nil {
		metrics.UserSyncs.WithLabelValues(metrics.SyncError).Inc()
		return nil, fmt.Errorf("error reloading user: %w", err)
	}

	metrics.UserSyncs.WithLabelValues(metrics.SyncUpserted).Inc()
	s.logger.Debug(ctx, "user profile synced", "user_id", stored.ID, "clerk_id", stored.ClerkID)
	return stored, nil
}
