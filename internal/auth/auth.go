// Package auth provides the authorization gate and API authentication
// utilities for reconkit. Every engine operation requires an explicit
// Authorization capability; nothing in this package is ambient state.
package auth

import (
	"sync"
	"time"

	"github.com/reconkit/reconkit/internal/errors"
)

// BlockedReason is the human-readable refusal attached to operations
// attempted without a confirmed grant.
const BlockedReason = "Blocked: Authorization not confirmed."

// Authorization is a capability value proving that an operator confirmed
// authorization for reconnaissance against their targets. The zero value is
// unconfirmed. Callers pass it explicitly to every engine operation; there is
// no package-level flag to flip.
type Authorization struct {
	confirmed bool
	operator  string
	grantedAt time.Time
}

// Grant returns a confirmed authorization recorded for the given operator
// label. An empty operator is allowed; the label is informational.
func Grant(operator string) Authorization {
	return Authorization{
		confirmed: true,
		operator:  operator,
		grantedAt: time.Now().UTC(),
	}
}

// Confirmed reports whether this capability represents an active grant.
func (a Authorization) Confirmed() bool {
	return a.confirmed
}

// Operator returns the operator label recorded on the grant.
func (a Authorization) Operator() string {
	return a.operator
}

// GrantedAt returns when the grant was confirmed. Zero for the unconfirmed
// capability.
func (a Authorization) GrantedAt() time.Time {
	return a.grantedAt
}

// Require returns an AuthorizationError unless a is a confirmed grant.
// Engine operations call this before validating input or spawning anything.
func Require(a Authorization) error {
	if !a.Confirmed() {
		return errors.ErrUnauthorized(BlockedReason)
	}
	return nil
}

// State describes the gate's current standing in API responses.
type State struct {
	Confirmed     bool       `json:"confirmed"`
	Operator      string     `json:"operator,omitempty"`
	GrantedAt     *time.Time `json:"granted_at,omitempty"`
	BlockedReason string     `json:"blocked_reason,omitempty"`
}

// Gate holds the current authorization grant for long-running servers. The
// API confirms and revokes through it; request handlers read the capability
// at call time so a revocation applies to the next operation.
type Gate struct {
	mu      sync.RWMutex
	current Authorization
}

// NewGate returns a gate with no active grant.
func NewGate() *Gate {
	return &Gate{}
}

// Confirm records a grant for the given operator and returns the capability.
func (g *Gate) Confirm(operator string) Authorization {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = Grant(operator)
	return g.current
}

// Revoke clears the active grant.
func (g *Gate) Revoke() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = Authorization{}
}

// Current returns the capability as of this call.
func (g *Gate) Current() Authorization {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// State returns the gate's standing for status endpoints.
func (g *Gate) State() State {
	a := g.Current()
	if !a.Confirmed() {
		return State{
			Confirmed:     false,
			BlockedReason: BlockedReason,
		}
	}

	grantedAt := a.GrantedAt()
	return State{
		Confirmed: true,
		Operator:  a.Operator(),
		GrantedAt: &grantedAt,
	}
}
