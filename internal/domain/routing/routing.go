// Package routing maps currency keys onto partitions. The same function is
// used by the history stores when writing and by the pipeline when reading,
// so every date of one currency pair lands on one worker.
package routing

import (
	"github.com/cespare/xxhash/v2"

	"fxaverages/internal/domain/model"
)

// Token returns the routing token of key: source and target codes, no date.
func Token(key model.CurrencyKey) string {
	return key.RoutingToken()
}

// Partition maps a routing token onto [0, partitions).
func Partition(token string, partitions int) int {
	if partitions <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(token) % uint64(partitions))
}

func PartitionOf(key model.CurrencyKey, partitions int) int {
	return Partition(Token(key), partitions)
}
