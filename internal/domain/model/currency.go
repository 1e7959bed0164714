package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCurrency = errors.New("invalid currency code")

// Currency is an ISO 4217 alphabetic code, always three upper-case letters.
type Currency string

// Reference set published by the European Central Bank.
const (
	AUD Currency = "AUD"
	BGN Currency = "BGN"
	BRL Currency = "BRL"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	CNY Currency = "CNY"
	CZK Currency = "CZK"
	DKK Currency = "DKK"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	HKD Currency = "HKD"
	HRK Currency = "HRK"
	HUF Currency = "HUF"
	IDR Currency = "IDR"
	ILS Currency = "ILS"
	INR Currency = "INR"
	JPY Currency = "JPY"
	KRW Currency = "KRW"
	MXN Currency = "MXN"
	MYR Currency = "MYR"
	NOK Currency = "NOK"
	NZD Currency = "NZD"
	PHP Currency = "PHP"
	PLN Currency = "PLN"
	RON Currency = "RON"
	RUB Currency = "RUB"
	SEK Currency = "SEK"
	SGD Currency = "SGD"
	THB Currency = "THB"
	TRY Currency = "TRY"
	USD Currency = "USD"
	ZAR Currency = "ZAR"
)

var descriptions = map[Currency]string{
	AUD: "Australian Dollar",
	BGN: "Bulgarian Lev",
	BRL: "Brazilian Real",
	CAD: "Canadian Dollar",
	CHF: "Swiss Franc",
	CNY: "Chinese Yuan Renminbi",
	CZK: "Czech Koruna",
	DKK: "Danish Krone",
	EUR: "Euro",
	GBP: "British Pound",
	HKD: "Hong Kong Dollar",
	HRK: "Croatian Kuna",
	HUF: "Hungarian Forint",
	IDR: "Indonesian Rupiah",
	ILS: "Israeli Sheqel",
	INR: "Indian Rupee",
	JPY: "Japanese Yen",
	KRW: "South Korean Won",
	MXN: "Mexican Peso",
	MYR: "Malaysian Ringgit",
	NOK: "Norwegian Krone",
	NZD: "New Zealand Dollar",
	PHP: "Philippines Peso",
	PLN: "Polish Zloty",
	RON: "Romanian New Leu",
	RUB: "Russian Ruble",
	SEK: "Swedish Krona",
	SGD: "Singapore Dollar",
	THB: "Thai Baht",
	TRY: "Turkish Lira",
	USD: "US Dollar",
	ZAR: "South African Rand",
}

// ParseCurrency normalizes s and checks it is a well-formed code.
// Codes outside the ECB reference set are accepted.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	c := Currency(code)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

// Description returns the English name, or the code itself when unknown.
func (c Currency) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return string(c)
}

func (c Currency) String() string {
	return string(c)
}

type CurrencyPair struct {
	From Currency `json:"from"`
	To   Currency `json:"to"`
}

func (p CurrencyPair) String() string {
	return string(p.From) + "/" + string(p.To)
}

// Less orders by source currency, then target currency.
func (p CurrencyPair) Less(o CurrencyPair) bool {
	if p.From != o.From {
		return p.From < o.From
	}
	return p.To < o.To
}
