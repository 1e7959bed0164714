package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fxaverages/internal/domain/model"
)

func TestToken_IgnoresDate(t *testing.T) {
	a := model.NewCurrencyKey(model.EUR, model.USD, time.Date(2017, 5, 22, 0, 0, 0, 0, time.UTC))
	b := model.NewCurrencyKey(model.EUR, model.USD, time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "EURUSD", Token(a))
	assert.Equal(t, Token(a), Token(b))
}

func TestToken_DistinctPairs(t *testing.T) {
	day := time.Date(2017, 5, 22, 0, 0, 0, 0, time.UTC)
	seen := map[string]model.Currency{}
	for _, to := range []model.Currency{model.USD, model.GBP, model.JPY, model.CHF, model.SEK} {
		token := Token(model.NewCurrencyKey(model.EUR, to, day))
		_, dup := seen[token]
		assert.False(t, dup, "token %s reused", token)
		seen[token] = to
	}
	assert.NotEqual(t,
		Token(model.NewCurrencyKey(model.EUR, model.USD, day)),
		Token(model.NewCurrencyKey(model.USD, model.EUR, day)))
}

func TestPartitionOf_Colocation(t *testing.T) {
	const partitions = 7
	start := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, to := range []model.Currency{model.USD, model.GBP, model.JPY, model.CHF, model.PLN} {
		want := PartitionOf(model.NewCurrencyKey(model.EUR, to, start), partitions)
		for d := 1; d < 90; d++ {
			key := model.NewCurrencyKey(model.EUR, to, start.AddDate(0, 0, d))
			assert.Equal(t, want, PartitionOf(key, partitions), "pair %s on day %d", to, d)
		}
	}
}

func TestPartition_Range(t *testing.T) {
	tests := []struct {
		name       string
		partitions int
	}{
		{"zero partitions", 0},
		{"single partition", 1},
		{"several partitions", 16},
		{"prime count", 271},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, token := range []string{"EURUSD", "EURGBP", "EURJPY", "USDEUR"} {
				p := Partition(token, tt.partitions)
				assert.GreaterOrEqual(t, p, 0)
				if tt.partitions > 1 {
					assert.Less(t, p, tt.partitions)
				} else {
					assert.Equal(t, 0, p)
				}
			}
		})
	}
}
