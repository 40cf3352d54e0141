package stocks

import "math"

// Net position labels.
const (
	Remaining = "remaining"
	Oversold  = "oversold"
)

// Position is the shares left after sales. Net is always non-negative;
// Label tells which way the balance goes.
type Position struct {
	Vested    float64 `json:"vested"`
	Purchased float64 `json:"purchased"`
	Sold      float64 `json:"sold"`
	Net       float64 `json:"net"`
	Label     string  `json:"label"`
}

// NetPosition computes (vested + purchased) - sold.
func NetPosition(vested, purchased, sold float64) Position {
	p := Position{Vested: vested, Purchased: purchased, Sold: sold}
	diff := (vested + purchased) - sold
	if diff >= 0 {
		p.Net, p.Label = diff, Remaining
	} else {
		p.Net, p.Label = math.Abs(diff), Oversold
	}
	return p
}

// IsOversold reports whether more shares were sold than acquired.
func (p Position) IsOversold() bool {
	return p.Label == Oversold
}
