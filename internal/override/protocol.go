// Package override implements the explicit acknowledgment protocol for
// blocked runs. A blocking verdict is never silently converted into a usable
// one: the caller must supply a validated, audited override record, and the
// resulting verdict stays permanently marked as override-applied.
package override

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
)

// MinJustificationLen is the shortest accepted justification. Short strings
// defeat the audit purpose of the record.
const MinJustificationLen = 20

var (
	ErrVerdictNotBlocking    = errors.New("override: verdict is not blocking, no override needed")
	ErrVerdictTypeMismatch   = errors.New("override: record does not acknowledge this verdict type")
	ErrMissingAuthorizer     = errors.New("override: authorizer must be identified")
	ErrJustificationTooShort = errors.New("override: justification too short")
	ErrOverrideExpired       = errors.New("override: acknowledgment has expired")
)

// Request is what a caller submits to unblock a run.
type Request struct {
	VerdictType   domain.VerdictType `json:"verdict_type"`
	Authorizer    string             `json:"authorizer"`
	Justification string             `json:"justification"`
	ApprovalLevel string             `json:"approval_level,omitempty"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"`
}

// Protocol validates override requests against a blocked verdict and records
// accepted ones in the audit store.
type Protocol struct {
	store Store
	now   func() time.Time
}

// NewProtocol creates the protocol over the given audit store.
func NewProtocol(store Store) *Protocol {
	return &Protocol{store: store, now: time.Now}
}

// Validate checks a request against the verdict it claims to acknowledge.
// It does not persist anything.
func (p *Protocol) Validate(verdict domain.FinalVerdict, req Request) error {
	if !verdict.Type.Blocking() {
		return ErrVerdictNotBlocking
	}
	if req.VerdictType != verdict.Type {
		return fmt.Errorf("%w: record says %s, verdict is %s",
			ErrVerdictTypeMismatch, req.VerdictType, verdict.Type)
	}
	if strings.TrimSpace(req.Authorizer) == "" {
		return ErrMissingAuthorizer
	}
	if len(strings.TrimSpace(req.Justification)) < MinJustificationLen {
		return fmt.Errorf("%w: need at least %d characters", ErrJustificationTooShort, MinJustificationLen)
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(p.now()) {
		return fmt.Errorf("%w: expired at %s", ErrOverrideExpired, req.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// Apply validates the request, appends exactly one audit record, and returns
// the verdict re-marked as override-applied. The returned verdict keeps its
// original type and confidence: an override acknowledges degraded trust, it
// does not upgrade it.
func (p *Protocol) Apply(ctx context.Context, verdict domain.FinalVerdict, req Request) (domain.FinalVerdict, error) {
	if err := p.Validate(verdict, req); err != nil {
		return domain.FinalVerdict{}, err
	}

	rec := domain.OverrideRecord{
		ID:            uuid.NewString(),
		Timestamp:     p.now().UTC(),
		VerdictType:   req.VerdictType,
		Authorizer:    strings.TrimSpace(req.Authorizer),
		Justification: strings.TrimSpace(req.Justification),
		ApprovalLevel: req.ApprovalLevel,
		ExpiresAt:     req.ExpiresAt,
	}
	if err := p.store.Append(ctx, rec); err != nil {
		return domain.FinalVerdict{}, fmt.Errorf("override: recording acknowledgment: %w", err)
	}

	log.Warn().
		Str("run_id", verdict.RunID).
		Str("verdict", string(verdict.Type)).
		Str("authorizer", rec.Authorizer).
		Str("override_id", rec.ID).
		Msg("blocking verdict overridden")
	return verdict.WithOverride(rec), nil
}

// History returns the audit trail, optionally filtered to one authorizer.
func (p *Protocol) History(ctx context.Context, authorizer string) ([]domain.OverrideRecord, error) {
	return p.store.List(ctx, authorizer)
}
