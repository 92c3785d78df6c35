package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	broken   []string
	warnings []string
	counts   map[string]int64
}

func (r *recorder) ReportBroken(id string, _ ...any)  { r.broken = append(r.broken, id) }
func (r *recorder) ReportWarning(id string, _ ...any) { r.warnings = append(r.warnings, id) }
func (r *recorder) ReportDebug(string, ...any)        {}
func (r *recorder) ReportCount(id string, n int64) {
	if r.counts == nil {
		r.counts = map[string]int64{}
	}
	r.counts[id] = n
}

func TestScopedAPI(t *testing.T) {
	rec := &recorder{}
	tel := NewScopedAPI("govinfo", rec)
	tel.ReportBroken("client.fetch-member", errors.New("boom"))
	tel.ReportWarning("client.list-granules")
	tel.ReportCount("client.search", 3)

	require.Equal(t, []string{"govinfo.client.fetch-member"}, rec.broken)
	require.Equal(t, []string{"govinfo.client.list-granules"}, rec.warnings)
	require.Equal(t, int64(3), rec.counts["govinfo.client.search"])
}

func TestOrNoop(t *testing.T) {
	require.Equal(t, NoopAPI{}, OrNoop(nil))
	rec := &recorder{}
	require.Same(t, rec, OrNoop(rec))
}

func TestSlogAPI(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tel := NewSlogAPI(logger)

	tel.ReportBroken("bioguide.client.search", errors.New("timeout"), "/Home/SearchResults")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "ERROR", line["level"])
	require.Equal(t, "bioguide.client.search", line["msg"])
	require.Equal(t, true, line["broken"])
	require.Equal(t, "timeout", line["err"])
	require.Equal(t, "/Home/SearchResults", line["arg.1"])

	buf.Reset()
	tel.ReportCount("bioguide.client.search", 12)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "INFO", line["level"])
	require.EqualValues(t, 12, line["count"])
}
