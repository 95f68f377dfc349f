// Package capability gates optional operation classes behind
// config-derived feature flags.
package capability

import "github.com/liuchzzyy/logseq-mcp/internal/logseq"

// Gate is the process-wide feature-flag set. It is built once at startup
// and read-only afterwards, so concurrent readers need no locking.
type Gate struct {
	flags map[string]bool
}

// New builds a gate from the given flag set. The map is copied; later
// mutation of the argument does not affect the gate.
func New(flags map[string]bool) *Gate {
	own := make(map[string]bool, len(flags))
	for name, enabled := range flags {
		own[name] = enabled
	}
	return &Gate{flags: own}
}

// IsEnabled reports whether a flag is on. Unknown flags are disabled —
// fail closed, never an error — so flags introduced by newer configs
// degrade gracefully.
func (g *Gate) IsEnabled(name string) bool {
	return g.flags[name]
}

// Require returns a classified error when the flag is off. Service
// operations call this before issuing any network I/O, so a disabled
// capability costs zero calls.
func (g *Gate) Require(name string) error {
	if g.IsEnabled(name) {
		return nil
	}
	return logseq.Errorf(logseq.KindCapabilityDisabled, "operation requires the %q capability, which is disabled", name)
}
