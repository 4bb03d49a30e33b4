package ledger

import (
	"context"
	"fmt"
	"time"

	"diamondpad/internal/addr"
	"diamondpad/internal/domain"
	"diamondpad/internal/event"
	"diamondpad/internal/observability"
)

// InitializeProtocol bootstraps the singleton protocol record with the given
// administrative authority. Returns storage.ErrDuplicateKey if the protocol
// is already bootstrapped.
func (s *Service) InitializeProtocol(ctx context.Context, authority string) (p *domain.Protocol, err error) {
	defer s.observe("initialize_protocol", time.Now(), &err)

	unlock := s.locks.lock(protocolKey)
	defer unlock()

	if authority == "" {
		return nil, &ValidationError{Field: "authority", Reason: "must not be empty"}
	}

	p = &domain.Protocol{
		Address:   addr.ProtocolAddress(),
		Authority: authority,
		CreatedAt: s.clock.Now(),
	}
	if err := s.protocol.Init(ctx, p); err != nil {
		return nil, fmt.Errorf("init protocol: %w", err)
	}

	s.log.WithField("authority", authority).Info("protocol initialized")
	return p, nil
}

// CreateLaunchParams are the creator-supplied launch settings.
type CreateLaunchParams struct {
	Creator          string
	Name             string
	Symbol           string
	TotalSupply      uint64
	DevAllocationBps uint16
	DevVestingDays   uint16
	LpLockDays       uint16
	HolderRewardsBps uint16
}

// validate checks the safety invariants in their fixed order: allocation
// cap, vesting minimum, lock minimum, name length, symbol length. The first
// violation is reported.
func (p *CreateLaunchParams) validate() error {
	if p.DevAllocationBps > domain.MaxDevAllocationBps {
		return &ValidationError{
			Field:  "dev_allocation_bps",
			Reason: fmt.Sprintf("%d exceeds maximum %d", p.DevAllocationBps, domain.MaxDevAllocationBps),
		}
	}
	if p.DevVestingDays < domain.MinDevVestingDays {
		return &ValidationError{
			Field:  "dev_vesting_days",
			Reason: fmt.Sprintf("%d is below minimum %d", p.DevVestingDays, domain.MinDevVestingDays),
		}
	}
	if p.LpLockDays < domain.MinLpLockDays {
		return &ValidationError{
			Field:  "lp_lock_days",
			Reason: fmt.Sprintf("%d is below minimum %d", p.LpLockDays, domain.MinLpLockDays),
		}
	}
	if len(p.Name) > domain.MaxNameLen {
		return &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("length %d exceeds maximum %d", len(p.Name), domain.MaxNameLen),
		}
	}
	if len(p.Symbol) > domain.MaxSymbolLen {
		return &ValidationError{
			Field:  "symbol",
			Reason: fmt.Sprintf("length %d exceeds maximum %d", len(p.Symbol), domain.MaxSymbolLen),
		}
	}
	return nil
}

// CreateLaunch validates the launch settings and registers the launch. The
// launch id is assigned from the protocol's total_launches counter, which is
// incremented in the same operation.
func (s *Service) CreateLaunch(ctx context.Context, params CreateLaunchParams) (l *domain.Launch, err error) {
	defer s.observe("create_launch", time.Now(), &err)

	unlock := s.locks.lock(protocolKey)
	defer unlock()

	if err := params.validate(); err != nil {
		return nil, err
	}

	protocol, err := s.getProtocol(ctx)
	if err != nil {
		return nil, err
	}

	launchID := protocol.TotalLaunches
	now := s.clock.Now()

	l = &domain.Launch{
		LaunchID:         launchID,
		Address:          addr.LaunchAddress(launchID),
		Creator:          params.Creator,
		Name:             params.Name,
		Symbol:           params.Symbol,
		TotalSupply:      params.TotalSupply,
		DevAllocationBps: params.DevAllocationBps,
		DevVestingDays:   params.DevVestingDays,
		LpLockDays:       params.LpLockDays,
		HolderRewardsBps: params.HolderRewardsBps,
		CreatedAt:        now,
		Status:           domain.StatusPending,
		TotalRaised:      0,
		HolderCount:      0,
	}

	if err := s.launches.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("insert launch: %w", err)
	}

	protocol.TotalLaunches++
	if err := s.protocol.Update(ctx, protocol); err != nil {
		return nil, fmt.Errorf("update protocol counters: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"launch_id": launchID,
		"creator":   params.Creator,
		"symbol":    params.Symbol,
	}).Info("launch created")

	observability.RecordLaunchCreated()
	s.emit(ctx, event.NewLaunchCreated(l))
	return l, nil
}

// SetLaunchStatus transitions a launch through its lifecycle. Only the
// protocol authority may transition launches; only Pending→Active,
// Pending→Failed, Active→Graduated and Active→Failed are legal.
func (s *Service) SetLaunchStatus(ctx context.Context, authority string, launchID uint64, next domain.LaunchStatus) (l *domain.Launch, err error) {
	defer s.observe("set_launch_status", time.Now(), &err)

	unlock := s.locks.lockLaunch(launchID)
	defer unlock()

	if !next.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", next)}
	}

	protocol, err := s.getProtocol(ctx)
	if err != nil {
		return nil, err
	}
	if authority != protocol.Authority {
		return nil, ErrUnauthorized
	}

	l, err = s.launches.GetByID(ctx, launchID)
	if err != nil {
		return nil, fmt.Errorf("get launch: %w", err)
	}

	if !l.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, l.Status, next)
	}

	l.Status = next
	if err := s.launches.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update launch: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"launch_id": launchID,
		"status":    next,
	}).Info("launch status changed")
	return l, nil
}

// getProtocol fetches the singleton, mapping a missing record to
// ErrNotInitialized.
func (s *Service) getProtocol(ctx context.Context) (*domain.Protocol, error) {
	p, err := s.protocol.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("get protocol: %w", err)
	}
	return p, nil
}

// observe records operation metrics. err must be the operation's named
// return so the deferred call sees the final value.
func (s *Service) observe(operation string, start time.Time, err *error) {
	observability.RecordOperation(operation, time.Since(start).Seconds(), errorType(*err))
}
