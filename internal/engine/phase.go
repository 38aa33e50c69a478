package engine

// Phase is the current interview mode. It is a pure function of how many
// answers the user has given, so resuming a stored transcript always lands
// in the same phase.
type Phase string

const (
	PhaseDiscovery    Phase = "discovery"
	PhaseConsultative Phase = "consultative"
	PhaseTechnical    Phase = "technical"
)

// Interview ceilings. MaxExchanges caps user answers per interview,
// MaxProbes caps follow-up probes. Both are enforced by the orchestration
// layer, not inside individual components.
const (
	MaxExchanges = 15
	MaxProbes    = 12
)

// phaseBudgets is how many answers a phase absorbs before it saturates and
// questioning should move on even if DeterminePhase has not advanced yet.
var phaseBudgets = map[Phase]int{
	PhaseDiscovery:    3,
	PhaseConsultative: 5,
	PhaseTechnical:    4,
}

// DeterminePhase maps the user-turn count onto a phase: discovery for the
// first three answers, consultative through the eighth, technical after.
func DeterminePhase(exchangeCount int) Phase {
	switch {
	case exchangeCount < 4:
		return PhaseDiscovery
	case exchangeCount < 9:
		return PhaseConsultative
	default:
		return PhaseTechnical
	}
}

// ShouldContinuePhase reports whether the current phase still has room for
// more questions. It returns false once the number of answers gathered
// exceeds the phase's budget. An empty transcript always continues. The
// signal is advisory; it biases question selection and never blocks an
// answer from being accepted.
func ShouldContinuePhase(t Transcript, phase Phase) bool {
	if len(t) == 0 {
		return true
	}
	budget, ok := phaseBudgets[phase]
	if !ok {
		return true
	}
	return t.ExchangeCount() <= budget
}
