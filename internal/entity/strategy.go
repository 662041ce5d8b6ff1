// Package entity resolves location and organizer references on draft
// events against the shared libraries, applying the three-tier override
// model: full embed beats partial override beats plain reference.
package entity

// Strategy identifies which override tier applies to a reference.
type Strategy int

const (
	// StrategyReference resolves to a deep copy of the library entity.
	StrategyReference Strategy = iota
	// StrategyPartialOverride shallow-merges override fields onto a deep
	// copy of the library entity.
	StrategyPartialOverride
	// StrategyFullOverride uses the embedded entity verbatim, even when
	// a (possibly invalid) reference id is also present.
	StrategyFullOverride
	// StrategyPlaceholder applies when neither an embedded entity nor a
	// resolvable reference exists. Resolution never returns nil.
	StrategyPlaceholder
)

// String returns the string representation of a strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyReference:
		return "reference"
	case StrategyPartialOverride:
		return "partial_override"
	case StrategyFullOverride:
		return "full_override"
	case StrategyPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// pick decides the strategy from the reference shape. The precedence is
// checked here once so it cannot drift between location and organizer
// resolution: embedded entity > id+override > id > placeholder.
func pick(hasEmbedded bool, id string, override map[string]any, inLibrary bool) Strategy {
	if hasEmbedded {
		return StrategyFullOverride
	}
	if id != "" && inLibrary {
		if len(override) > 0 {
			return StrategyPartialOverride
		}
		return StrategyReference
	}
	return StrategyPlaceholder
}
