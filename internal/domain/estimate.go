package domain

import (
	"encoding/json"
	"math"
)

// LineItem is one estimate row. Cost is always derived from hours and rate,
// never stored, so the two can not drift apart.
type LineItem struct {
	Item  string  `json:"item"`
	Qty   float64 `json:"qty"`
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"`
	Role  string  `json:"role"`
}

// Cost returns the line cost rounded to the nearest currency unit.
func (li LineItem) Cost() int64 {
	return int64(math.Round(li.Hours * li.Rate))
}

// MarshalJSON serializes the line item with its derived cost included.
func (li LineItem) MarshalJSON() ([]byte, error) {
	type alias LineItem
	return json.Marshal(struct {
		alias
		Cost int64 `json:"cost"`
	}{alias(li), li.Cost()})
}

// AppliedCoefficient records one multiplicative adjustment that actually
// fired, in the dictionary's declared order.
type AppliedCoefficient struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason"`
}

// Estimate is the itemized cost breakdown with its adjustment trace.
type Estimate struct {
	LineItems    []LineItem           `json:"line_items"`
	Coefficients []AppliedCoefficient `json:"coefficients"`
	Assumptions  []string             `json:"assumptions"`
	Currency     string               `json:"currency"`
}

// BaseCost sums the rounded line costs before coefficients.
func (e *Estimate) BaseCost() int64 {
	var total int64
	for _, li := range e.LineItems {
		total += li.Cost()
	}
	return total
}

// FinalCost applies the coefficient multipliers to the base cost and rounds
// once at the end.
func (e *Estimate) FinalCost() int64 {
	total := float64(e.BaseCost())
	for _, c := range e.Coefficients {
		total *= c.Multiplier
	}
	return int64(math.Round(total))
}
