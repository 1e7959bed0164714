package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidPrice = errors.New("invalid price")
)

// CurrencyKey identifies one day's observation of a currency pair.
type CurrencyKey struct {
	From Currency  `json:"from"`
	To   Currency  `json:"to"`
	Date time.Time `json:"date"`
}

// NewCurrencyKey truncates date to a UTC calendar day.
func NewCurrencyKey(from, to Currency, date time.Time) CurrencyKey {
	return CurrencyKey{From: from, To: to, Date: Day(date)}
}

// RoutingToken is the colocation projection of the key: source and target
// codes concatenated, the date excluded.
func (k CurrencyKey) RoutingToken() string {
	return string(k.From) + string(k.To)
}

func (k CurrencyKey) Pair() CurrencyPair {
	return CurrencyPair{From: k.From, To: k.To}
}

func (k CurrencyKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.From, k.To, k.Date.Format(DateLayout))
}

func (k CurrencyKey) Validate() error {
	if !k.From.Valid() {
		return fmt.Errorf("%w: source %q", ErrInvalidCurrency, k.From)
	}
	if !k.To.Valid() {
		return fmt.Errorf("%w: target %q", ErrInvalidCurrency, k.To)
	}
	if k.Date.IsZero() {
		return fmt.Errorf("%w: missing date for %s/%s", ErrInvalidDate, k.From, k.To)
	}
	return nil
}

// ParseCurrencyKey reverses CurrencyKey.String.
func ParseCurrencyKey(s string) (CurrencyKey, error) {
	if len(s) != len("AAA:BBB:")+len(DateLayout) || s[3] != ':' || s[7] != ':' {
		return CurrencyKey{}, fmt.Errorf("malformed currency key %q", s)
	}
	from, err := ParseCurrency(s[:3])
	if err != nil {
		return CurrencyKey{}, err
	}
	to, err := ParseCurrency(s[4:7])
	if err != nil {
		return CurrencyKey{}, err
	}
	date, err := ParseDate(s[8:])
	if err != nil {
		return CurrencyKey{}, err
	}
	return CurrencyKey{From: from, To: to, Date: date}, nil
}

// HistoryEntry is one stored (key, closing price) fact.
type HistoryEntry struct {
	Key   CurrencyKey     `json:"key"`
	Close decimal.Decimal `json:"close"`
}

func (e HistoryEntry) Validate() error {
	if err := e.Key.Validate(); err != nil {
		return err
	}
	if e.Close.IsNegative() {
		return fmt.Errorf("%w: negative close %s for %s", ErrInvalidPrice, e.Close, e.Key)
	}
	return nil
}

// PricePoint is one day's closing rate, ordered by date.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// CurrencyPrice is a single historic rate, as shown by the history view.
type CurrencyPrice struct {
	Pair  CurrencyPair    `json:"pair"`
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
