package probe

import (
	"context"

	"github.com/nholik/pulsecheck/internal/health"
)

// Probe is one independent health check against one target. Implementations
// own their target configuration and any client they need; the engine never
// inspects either.
//
// Check translates every failure mode (connection refused, malformed
// response, partial success) into the returned Result — the signature has no
// error return on purpose. Check must honor ctx cancellation and deadlines;
// an implementation that ignores them is abandoned by the Runner once its
// per-probe deadline expires.
type Probe interface {
	Name() string
	Check(ctx context.Context) health.Result
}

// Func adapts a bare function to the Probe interface.
type Func struct {
	name  string
	check func(ctx context.Context) health.Result
}

// NewFunc wraps check as a named probe.
func NewFunc(name string, check func(ctx context.Context) health.Result) *Func {
	return &Func{name: name, check: check}
}

// Name implements Probe.
func (f *Func) Name() string {
	return f.name
}

// Check implements Probe.
func (f *Func) Check(ctx context.Context) health.Result {
	return f.check(ctx)
}
