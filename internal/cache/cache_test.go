package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNormalizesInputs(t *testing.T) {
	a := Key("indeed", models.SearchParams{Query: "Senior  Director", Location: " Remote", Country: "US"})
	b := Key("Indeed", models.SearchParams{Query: "senior director", Location: "remote ", Country: "us"})

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "jobmatch:indeed:"))
	assert.NotEqual(t, a, Key("indeed", models.SearchParams{Query: "senior director", Location: "Berlin", Country: "us"}))
}

func TestKeyCoversEveryRequestField(t *testing.T) {
	base := models.SearchParams{Query: "director", Location: "remote", Country: "us"}
	variants := map[string]models.SearchParams{
		"country":  {Query: "director", Location: "remote", Country: "de"},
		"remote":   {Query: "director", Location: "remote", Country: "us", Remote: true},
		"offset":   {Query: "director", Location: "remote", Country: "us", Offset: 10},
		"job type": {Query: "director", Location: "remote", Country: "us", JobType: "fulltime"},
		"hours":    {Query: "director", Location: "remote", Country: "us", Hours: 24},
	}

	want := Key("indeed", base)
	seen := map[string]string{want: "base"}
	for name, params := range variants {
		got := Key("indeed", params)
		assert.NotEqual(t, want, got, name)
		_, dup := seen[got]
		assert.False(t, dup, name)
		seen[got] = name
	}
}

func TestMemoryGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(4, time.Hour)
	jobs := []models.Job{models.Job{Title: "Director", URL: "https://example.com/1"}.WithScore(5)}

	require.NoError(t, mem.Set(ctx, "k", jobs))
	got, ok := mem.Get(ctx, "k")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Score)

	got[0].Title = "changed"
	again, _ := mem.Get(ctx, "k")
	assert.Equal(t, "Director", again[0].Title)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(2, 0)

	require.NoError(t, mem.Set(ctx, "a", []models.Job{{Title: "a"}}))
	require.NoError(t, mem.Set(ctx, "b", []models.Job{{Title: "b"}}))
	_, _ = mem.Get(ctx, "a")
	require.NoError(t, mem.Set(ctx, "c", []models.Job{{Title: "c"}}))

	_, okA := mem.Get(ctx, "a")
	_, okB := mem.Get(ctx, "b")
	_, okC := mem.Get(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, mem.Len())
}

func TestMemoryExpiresEntries(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(2, 20*time.Millisecond)

	require.NoError(t, mem.Set(ctx, "k", []models.Job{{Title: "a"}}))
	_, ok := mem.Get(ctx, "k")
	assert.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = mem.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCachesEmptyResults(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(1, time.Hour)

	require.NoError(t, mem.Set(ctx, "k", []models.Job{}))
	got, ok := mem.Get(ctx, "k")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestEncodeDecodeDropsScores(t *testing.T) {
	data, err := encodeJobs([]models.Job{models.Job{Title: "Director", URL: "https://example.com/1"}.WithScore(3)})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"score"`)

	jobs, err := decodeJobs(data)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://example.com/1", jobs[0].URL)

	_, err = decodeJobs([]byte("{"))
	assert.Error(t, err)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis("not-a-url", time.Minute)
	assert.ErrorContains(t, err, "invalid redis URL")
}

func TestNop(t *testing.T) {
	var store Store = Nop{}
	require.NoError(t, store.Set(context.Background(), "k", []models.Job{{Title: "a"}}))
	_, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
}
