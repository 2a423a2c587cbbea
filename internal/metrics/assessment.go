package metrics

// Signal is one line of the value-investing assessment.
type Signal struct {
	Ratio   Ratio
	Message string
}

type rule struct {
	ratio   Ratio
	pass    func(float64) bool
	message string
}

var rules = []rule{
	{PERatio, func(v float64) bool { return v < 15 }, "P/E Ratio suggests potential undervaluation"},
	{PBRatio, func(v float64) bool { return v < 1.5 }, "P/B Ratio indicates possible value opportunity"},
	{DebtToEquity, func(v float64) bool { return v < 1 }, "Healthy Debt-to-Equity ratio"},
	{CurrentRatio, func(v float64) bool { return v > 1.5 }, "Strong liquidity position"},
}

// Assess applies the classic value thresholds. Missing ratios never signal.
func Assess(r Result) []Signal {
	var out []Signal
	for _, rl := range rules {
		v := r.Get(rl.ratio)
		if v.Valid && rl.pass(v.Float64) {
			out = append(out, Signal{Ratio: rl.ratio, Message: rl.message})
		}
	}
	return out
}
