package model

import "fmt"

// FeedMode selects where historic rates are loaded from.
type FeedMode string

const (
	LiveFeed     FeedMode = "live"
	SnapshotFeed FeedMode = "snapshot"
	TestFeed     FeedMode = "test"
)

func ParseFeedMode(s string) (FeedMode, error) {
	switch m := FeedMode(s); m {
	case LiveFeed, SnapshotFeed, TestFeed:
		return m, nil
	default:
		return "", fmt.Errorf("unknown feed mode %q", s)
	}
}

func (m FeedMode) String() string {
	return string(m)
}
