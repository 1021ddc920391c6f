package signal

// Trend definitions found across the script generations this service
// replaces. They disagree, so the choice is explicit configuration rather
// than a silent pick.
const (
	// TrendModeSMACross labels the trend from the SMA50/SMA200 relation.
	TrendModeSMACross = "sma_cross"
	// TrendModeMomentum10 compares the last close against the close ten
	// bars earlier.
	TrendModeMomentum10 = "momentum10"
)

const defaultCrossoverWeight = 30

// Rules holds the evaluator knobs that vary between script generations.
type Rules struct {
	// TrendMode selects the daily trend definition.
	TrendMode string
	// CrossoverWeight is the score contribution of an EMA9/EMA21 cross
	// (30 in the flat-scored generation, 10 in the weighted one).
	CrossoverWeight int
	// RecoveryDoubleCount keeps the "posible recuperación" bullish rule
	// firing alongside the bearish SMA50<SMA200 rule it overlaps with.
	// The overlap is a quirk carried over for behavioral parity; turn it
	// off to drop the combined rule entirely.
	RecoveryDoubleCount bool
}

func DefaultRules() Rules {
	return Rules{
		TrendMode:           TrendModeSMACross,
		CrossoverWeight:     defaultCrossoverWeight,
		RecoveryDoubleCount: true,
	}
}

func (r Rules) normalized() Rules {
	if r.TrendMode != TrendModeSMACross && r.TrendMode != TrendModeMomentum10 {
		r.TrendMode = TrendModeSMACross
	}
	if r.CrossoverWeight <= 0 {
		r.CrossoverWeight = defaultCrossoverWeight
	}
	return r
}

// Engine evaluates daily and intraday snapshots from raw bar history.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules.normalized()}
}
