// backend/src/processors/converter.go
package processors

// DefaultBRLPerEUR is used until a live rate is available and whenever the
// rate source is unreachable.
const DefaultBRLPerEUR = 6.0

// Converter holds the single EUR→BRL rate used to consolidate cross-currency
// figures. Stale marks the rate as a fallback or last-known value, so callers
// can flag consolidated totals as approximate.
type Converter struct {
	Rate  float64 `json:"rate"` // BRL per 1 EUR
	Stale bool    `json:"stale"`
}

// NewConverter builds a converter, substituting the default rate for any
// non-positive input.
func NewConverter(rate float64, stale bool) Converter {
	if rate <= 0 {
		return Converter{Rate: DefaultBRLPerEUR, Stale: true}
	}
	return Converter{Rate: rate, Stale: stale}
}

// ToEUR converts an amount in BRL to EUR.
func (c Converter) ToEUR(amountBRL float64) float64 {
	if c.Rate == 0 {
		return 0
	}
	return amountBRL / c.Rate
}

// ToBRL converts an amount in EUR to BRL.
func (c Converter) ToBRL(amountEUR float64) float64 {
	return amountEUR * c.Rate
}

// ConsolidatedValue expresses a pair of per-currency nets as a single figure
// in each reporting currency.
type ConsolidatedValue struct {
	EUR float64 `json:"eur"`
	BRL float64 `json:"brl"`
}

// Consolidate merges a BRL net and a EUR net into both reporting currencies.
func (c Converter) Consolidate(netBRL, netEUR float64) ConsolidatedValue {
	return ConsolidatedValue{
		EUR: netEUR + c.ToEUR(netBRL),
		BRL: netBRL + c.ToBRL(netEUR),
	}
}
