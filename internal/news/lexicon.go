package news

// Word valences for financial headlines, on the usual [-4, 4] scale.
// Derived from the small hand lists the earlier research scripts carried,
// widened with the common news-wire vocabulary.
var lexicon = map[string]float64{
	// positive
	"gain":         1.8,
	"gains":        1.8,
	"rally":        2.0,
	"rallies":      2.0,
	"surge":        2.3,
	"surges":       2.3,
	"soar":         2.5,
	"soars":        2.5,
	"jump":         1.9,
	"jumps":        1.9,
	"climb":        1.6,
	"climbs":       1.6,
	"beat":         1.7,
	"beats":        1.7,
	"upgrade":      2.0,
	"upgraded":     2.0,
	"record":       1.5,
	"profit":       1.6,
	"profits":      1.6,
	"growth":       1.7,
	"strong":       1.8,
	"bullish":      2.2,
	"buy":          1.3,
	"outperform":   1.9,
	"win":          1.9,
	"wins":         1.9,
	"positive":     1.7,
	"optimism":     1.8,
	"optimistic":   1.8,
	"upbeat":       1.7,
	"recover":      1.4,
	"recovery":     1.4,
	"rebound":      1.6,
	"rebounds":     1.6,
	"boost":        1.6,
	"boosts":       1.6,
	"success":      2.0,
	"approval":     1.5,
	"approved":     1.5,
	"dividend":     0.8,
	"expansion":    1.2,
	"partnership":  1.1,
	"breakthrough": 2.1,

	// negative
	"loss":          -1.8,
	"losses":        -1.8,
	"fall":          -1.5,
	"falls":         -1.5,
	"drop":          -1.6,
	"drops":         -1.6,
	"plunge":        -2.4,
	"plunges":       -2.4,
	"crash":         -2.8,
	"crashes":       -2.8,
	"slump":         -2.0,
	"slumps":        -2.0,
	"tumble":        -2.0,
	"tumbles":       -2.0,
	"sink":          -1.9,
	"sinks":         -1.9,
	"slide":         -1.5,
	"slides":        -1.5,
	"miss":          -1.6,
	"misses":        -1.6,
	"downgrade":     -2.0,
	"downgraded":    -2.0,
	"weak":          -1.6,
	"bearish":       -2.2,
	"sell":          -1.2,
	"selloff":       -2.1,
	"underperform":  -1.9,
	"lawsuit":       -2.0,
	"sue":           -1.8,
	"sued":          -1.8,
	"fraud":         -2.9,
	"probe":         -1.6,
	"investigation": -1.7,
	"recall":        -1.8,
	"layoff":        -2.0,
	"layoffs":       -2.0,
	"cut":           -1.3,
	"cuts":          -1.3,
	"warning":       -1.7,
	"warns":         -1.6,
	"fear":          -1.9,
	"fears":         -1.9,
	"risk":          -1.1,
	"risks":         -1.1,
	"decline":       -1.5,
	"declines":      -1.5,
	"negative":      -1.7,
	"bankruptcy":    -3.0,
	"default":       -2.2,
	"scandal":       -2.5,
	"fine":          -1.2,
	"fined":         -1.4,
	"halt":          -1.5,
	"halts":         -1.5,
	"delay":         -1.2,
	"delays":        -1.2,
	"shortfall":     -1.8,
	"concern":       -1.3,
	"concerns":      -1.3,
	"pressure":      -1.2,
	"volatile":      -1.0,
	"crisis":        -2.4,
}

// negators flip the valence of the word that follows within the scope window.
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"without": true,
	"isn't":   true,
	"wasn't":  true,
	"aren't":  true,
	"don't":   true,
	"doesn't": true,
	"won't":   true,
	"can't":   true,
	"despite": true,
}

// boosters scale the valence of the word that follows.
var boosters = map[string]float64{
	"very":       0.293,
	"extremely":  0.293,
	"hugely":     0.293,
	"sharply":    0.293,
	"massively":  0.293,
	"slightly":   -0.293,
	"marginally": -0.293,
	"somewhat":   -0.293,
	"barely":     -0.293,
}
