package radar

// State is the presence state machine's current variant (spec.md §3, §4.G).
//
// The legacy C library carried a fourth nominal state that was never
// reachable; it is intentionally not represented here.
type State int

const (
	Absence State = iota
	MacroPresence
	MicroPresence
)

func (s State) String() string {
	switch s {
	case Absence:
		return "ABSENCE"
	case MacroPresence:
		return "MACRO_PRESENCE"
	case MicroPresence:
		return "MICRO_PRESENCE"
	default:
		return "UNKNOWN"
	}
}

// Mode gates which of the macro/micro tracks may run and emit (spec.md §4.G).
type Mode int

const (
	// ModeMacroOnly runs only the macro track; the micro detector is inert.
	ModeMacroOnly Mode = iota
	// ModeMicroOnly runs only the micro track; macro comparisons never emit.
	ModeMicroOnly
	// ModeMicroIfMacro arms the micro track only after a macro event drops.
	ModeMicroIfMacro
	// ModeMicroAndMacro lets both tracks independently promote; macro wins ties.
	ModeMicroAndMacro
)

func (m Mode) String() string {
	switch m {
	case ModeMacroOnly:
		return "MACRO_ONLY"
	case ModeMicroOnly:
		return "MICRO_ONLY"
	case ModeMicroIfMacro:
		return "MICRO_IF_MACRO"
	case ModeMicroAndMacro:
		return "MICRO_AND_MACRO"
	default:
		return "UNKNOWN"
	}
}

// Event is the payload delivered to the callback registered with
// SetCallback, one per state-changing transition (spec.md §6).
type Event struct {
	TimestampMs int64
	RangeBin    int // -1 for absence events
	State       State
}

// Peak is a clear-on-read maximum score/bin pair returned by MaxMacro and
// MaxMicro (spec.md §6 get_max_macro / get_max_micro).
type Peak struct {
	Score float64
	Bin   int
}

// Callback is invoked synchronously from within ProcessFrame. Re-entering
// the Detector (calling ProcessFrame, SetConfig, or Reset) from inside the
// callback is forbidden — spec.md §5 requires the caller to serialize
// reconfiguration against frame processing, and the same rule applies to
// callbacks invoked from the middle of one.
type Callback func(Event)
