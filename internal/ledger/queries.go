package ledger

import (
	"context"
	"fmt"

	"diamondpad/internal/domain"
)

// GetLaunch retrieves a launch by its sequence id.
func (s *Service) GetLaunch(ctx context.Context, launchID uint64) (*domain.Launch, error) {
	return s.launches.GetByID(ctx, launchID)
}

// GetLaunchesByCreator retrieves all launches registered by a creator.
func (s *Service) GetLaunchesByCreator(ctx context.Context, creator string) ([]*domain.Launch, error) {
	return s.launches.GetByCreator(ctx, creator)
}

// GetLaunchesByStatus retrieves all launches in a lifecycle state.
func (s *Service) GetLaunchesByStatus(ctx context.Context, status domain.LaunchStatus) ([]*domain.Launch, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}
	return s.launches.GetByStatus(ctx, status)
}

// GetPosition retrieves holder's position in a launch.
func (s *Service) GetPosition(ctx context.Context, launchID uint64, holder string) (*domain.Position, error) {
	l, err := s.launches.GetByID(ctx, launchID)
	if err != nil {
		return nil, fmt.Errorf("get launch: %w", err)
	}
	return s.positions.Get(ctx, l.Address, holder)
}

// GetPositionsByLaunch retrieves every position in a launch.
func (s *Service) GetPositionsByLaunch(ctx context.Context, launchID uint64) ([]*domain.Position, error) {
	l, err := s.launches.GetByID(ctx, launchID)
	if err != nil {
		return nil, fmt.Errorf("get launch: %w", err)
	}
	return s.positions.GetByLaunch(ctx, l.Address)
}

// GetPositionsByHolder retrieves every position held by a wallet.
func (s *Service) GetPositionsByHolder(ctx context.Context, holder string) ([]*domain.Position, error) {
	return s.positions.GetByHolder(ctx, holder)
}

// GetBundler retrieves the flag record for a wallet.
func (s *Service) GetBundler(ctx context.Context, wallet string) (*domain.Bundler, error) {
	return s.bundlers.Get(ctx, wallet)
}

// IsFlagged reports whether a wallet has been flagged as a bundler.
func (s *Service) IsFlagged(ctx context.Context, wallet string) (bool, error) {
	_, err := s.bundlers.Get(ctx, wallet)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetBundlers retrieves all flagged wallets, oldest flag first.
func (s *Service) GetBundlers(ctx context.Context) ([]*domain.Bundler, error) {
	return s.bundlers.GetAll(ctx)
}

// Stats returns the protocol record with its running counters.
func (s *Service) Stats(ctx context.Context) (*domain.Protocol, error) {
	return s.getProtocol(ctx)
}
