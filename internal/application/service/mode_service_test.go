package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
)

type namedFeed string

func (f namedFeed) Name() string { return string(f) }

func (f namedFeed) Fetch(context.Context) ([]model.HistoryEntry, error) { return nil, nil }

func TestModeService_Switch(t *testing.T) {
	svc := NewModeService(model.SnapshotFeed, map[model.FeedMode]port.FeedPort{
		model.SnapshotFeed: namedFeed("snapshot"),
		model.TestFeed:     namedFeed("test"),
	}, nil)

	assert.Equal(t, model.SnapshotFeed, svc.GetCurrentMode())

	require.NoError(t, svc.SwitchMode(context.Background(), model.TestFeed))
	assert.Equal(t, model.TestFeed, svc.GetCurrentMode())
	assert.Equal(t, "test", svc.Feed(svc.GetCurrentMode()).Name())

	err := svc.SwitchMode(context.Background(), model.LiveFeed)
	assert.Error(t, err)
	assert.Equal(t, model.TestFeed, svc.GetCurrentMode())
	assert.Nil(t, svc.Feed(model.LiveFeed))
}
