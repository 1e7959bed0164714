package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AverageKind names the aggregation branch and its result store.
type AverageKind string

const (
	SimpleAverage      AverageKind = "sma"
	ExponentialAverage AverageKind = "ema"
)

// ParseAverageKind accepts the store names and the long names used by the API.
func ParseAverageKind(s string) (AverageKind, error) {
	switch s {
	case "sma", "simple":
		return SimpleAverage, nil
	case "ema", "exponential":
		return ExponentialAverage, nil
	default:
		return "", fmt.Errorf("unknown average kind %q", s)
	}
}

func (k AverageKind) String() string {
	return string(k)
}

// AveragePlaces is the scale of every published average.
const AveragePlaces = 2

// AverageResult is the published average of one currency pair.
type AverageResult struct {
	Pair  CurrencyPair    `json:"pair"`
	Value decimal.Decimal `json:"value"`
}

// Currency is the result store key.
func (r AverageResult) Currency() Currency {
	return r.Pair.To
}
