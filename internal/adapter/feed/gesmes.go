package feed

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

// envelope mirrors the ECB reference rate document:
// Envelope/Cube/Cube[@time]/Cube[@currency,@rate]. Namespaces are ignored.
type envelope struct {
	XMLName xml.Name  `xml:"Envelope"`
	Subject string    `xml:"subject"`
	Sender  string    `xml:"Sender>name"`
	Days    []dayCube `xml:"Cube>Cube"`
}

type dayCube struct {
	Time  string     `xml:"time,attr"`
	Rates []rateCube `xml:"Cube"`
}

type rateCube struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

// ParseGesmes decodes an ECB document into history entries. Rates are quoted
// against the euro.
func ParseGesmes(r io.Reader) ([]model.HistoryEntry, error) {
	var env envelope
	if err := xml.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode gesmes document: %w", err)
	}

	var out []model.HistoryEntry
	for _, d := range env.Days {
		date, err := model.ParseDate(d.Time)
		if err != nil {
			return nil, err
		}
		for _, rc := range d.Rates {
			to, err := model.ParseCurrency(rc.Currency)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.Time, err)
			}
			rate, err := decimal.NewFromString(rc.Rate)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s rate %q", model.ErrInvalidPrice, d.Time, to, rc.Rate)
			}
			out = append(out, model.HistoryEntry{
				Key:   model.NewCurrencyKey(model.EUR, to, date),
				Close: rate,
			})
		}
	}
	return out, nil
}
