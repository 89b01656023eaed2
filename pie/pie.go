package pie

// Share is one founder's slice of the pie.
type Share struct {
	Founder      Founder             `json:"founder"`
	Calculations FounderCalculations `json:"calculations"`
	Percent      float64             `json:"percent"`
}

// Pie is the result of running the engine over every founder.
type Pie struct {
	Shares      []Share `json:"shares"`
	TotalSlices float64 `json:"totalSlices"`
}

// CalculatePie runs the engine for every founder with DefaultParams.
func CalculatePie(founders []Founder, entries []LedgerEntry, categories []Category) Pie {
	return defaultCalculator.Pie(founders, entries, categories)
}

// Pie computes every founder's calculations and their share of the
// total. Shares are zero when the total is not positive.
func (c Calculator) Pie(founders []Founder, entries []LedgerEntry, categories []Category) Pie {
	out := Pie{Shares: make([]Share, 0, len(founders))}
	for _, f := range founders {
		calc := c.FounderSlices(f, entries, categories)
		out.Shares = append(out.Shares, Share{Founder: f, Calculations: calc})
		out.TotalSlices += calc.Slices.Total
	}
	if out.TotalSlices <= 0 {
		return out
	}
	for i := range out.Shares {
		out.Shares[i].Percent = out.Shares[i].Calculations.Slices.Total / out.TotalSlices * 100
	}
	return out
}
