package domain

import "time"

// OverrideRecord is an explicit, authorized acknowledgment that an
// inconclusive run may proceed with a degraded-confidence result. Records
// are append-only audit entries: never edited or deleted once written.
type OverrideRecord struct {
	ID            string      `json:"id"`
	Timestamp     time.Time   `json:"timestamp"`
	VerdictType   VerdictType `json:"verdict_type"`
	Authorizer    string      `json:"authorizer"`
	Justification string      `json:"justification"`
	ApprovalLevel string      `json:"approval_level,omitempty"` // ANALYST, SENIOR, CIO
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
}
