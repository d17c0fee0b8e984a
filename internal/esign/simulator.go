package esign

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Simulator is an offline-friendly Provider. Sends succeed with a generated
// envelope id unless FailWith is set, in which case every send and void
// reports that application error. Latency is small but nonzero so callers
// exercise their async paths.
type Simulator struct {
	FailWith string
	Latency  time.Duration
}

func NewSimulator(failWith string) *Simulator {
	return &Simulator{FailWith: failWith, Latency: 150 * time.Millisecond}
}

func (s *Simulator) SendEnvelope(ctx context.Context, pkg Package, accountNumber string) (SendResult, error) {
	if err := s.wait(ctx); err != nil {
		return SendResult{}, err
	}
	if s.FailWith != "" {
		return SendResult{Success: false, Error: s.FailWith}, nil
	}
	return SendResult{Success: true, EnvelopeID: "env-" + uuid.NewString()}, nil
}

func (s *Simulator) SendMultiAccount(ctx context.Context, pkg MultiPackage) (SendResult, error) {
	if err := s.wait(ctx); err != nil {
		return SendResult{}, err
	}
	if s.FailWith != "" {
		return SendResult{Success: false, Error: s.FailWith}, nil
	}
	return SendResult{Success: true, EnvelopeID: "env-" + uuid.NewString()}, nil
}

func (s *Simulator) VoidEnvelope(ctx context.Context, envelopeID, reason string) (VoidResult, error) {
	if err := s.wait(ctx); err != nil {
		return VoidResult{}, err
	}
	if s.FailWith != "" {
		return VoidResult{Success: false, Error: s.FailWith}, nil
	}
	return VoidResult{Success: true}, nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
