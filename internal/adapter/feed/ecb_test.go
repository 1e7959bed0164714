package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxaverages/internal/domain/model"
)

const samplePath = "testdata/gesmes.xml"

func TestParseGesmes(t *testing.T) {
	f, err := os.Open(samplePath)
	require.NoError(t, err)
	defer f.Close()

	entries, err := ParseGesmes(f)
	require.NoError(t, err)
	require.Len(t, entries, 9)

	first := entries[0]
	assert.Equal(t, "EUR:USD:2017-05-24", first.Key.String())
	assert.Equal(t, "1.1214", first.Close.String())
	assert.Equal(t, model.JPY, entries[1].Key.To)
	assert.Equal(t, "2017-05-22", entries[8].Key.Date.Format(model.DateLayout))
}

func TestParseGesmes_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "rates"},
		{"bad date", `<Envelope><Cube><Cube time="24/05/2017"><Cube currency="USD" rate="1.1"/></Cube></Cube></Envelope>`},
		{"bad currency", `<Envelope><Cube><Cube time="2017-05-24"><Cube currency="US" rate="1.1"/></Cube></Cube></Envelope>`},
		{"bad rate", `<Envelope><Cube><Cube time="2017-05-24"><Cube currency="USD" rate="n/a"/></Cube></Cube></Envelope>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGesmes(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSnapshotFeed(t *testing.T) {
	feed := NewSnapshotFeed(samplePath, nil)
	entries, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 9)
	assert.Equal(t, "ecb-snapshot", feed.Name())

	_, err = NewSnapshotFeed("testdata/missing.xml", nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestLiveFeed(t *testing.T) {
	doc, err := os.ReadFile(samplePath)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write(doc)
	}))
	defer srv.Close()

	feed := NewLiveFeed(LiveConfig{URL: srv.URL, RetryMax: 0}, nil)
	entries, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 9)
}

func TestLiveFeed_Retries(t *testing.T) {
	doc, err := os.ReadFile(samplePath)
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(doc)
	}))
	defer srv.Close()

	feed := NewLiveFeed(LiveConfig{
		URL:          srv.URL,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, nil)
	entries, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 9)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLiveFeed_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewLiveFeed(LiveConfig{URL: srv.URL}, nil).Fetch(context.Background())
	assert.ErrorContains(t, err, "status 404")
}
