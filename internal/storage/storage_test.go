package storage

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainer-ai/internal/config"
)

func TestTranscriptKey(t *testing.T) {
	tr := Transcript{Kind: "workout", ClientID: "c-1", CreatedAt: time.Date(2026, 3, 2, 9, 4, 5, 0, time.UTC)}
	key := TranscriptKey("transcripts", tr)
	assert.True(t, strings.HasPrefix(key, "transcripts/c-1/workout/2026/03/02/090405-"), key)
	assert.True(t, strings.HasSuffix(key, ".json"), key)
	assert.NotEqual(t, key, TranscriptKey("transcripts", tr), "keys must be unique per attempt")
}

func TestNoopArchive(t *testing.T) {
	a := NewNoopArchive()
	key, err := a.Put(t.Context(), Transcript{})
	require.NoError(t, err)
	assert.Empty(t, key)
}

type recordedPut struct {
	path        string
	contentType string
	body        []byte
}

func TestS3Archive_PutAndPresign(t *testing.T) {
	var (
		mu   sync.Mutex
		puts []recordedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body})
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	archive, err := NewS3Archive(t.Context(), log, config.S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "plans",
		Prefix:          "transcripts",
	})
	require.NoError(t, err)

	tr := Transcript{
		Kind: "meal_plan", ClientID: "c-9", Model: "mistral-7b", Prompt: "p", Raw: "not json",
		Outcome: "malformed_plan", CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	key, err := archive.Put(t.Context(), tr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "transcripts/c-9/meal_plan/"), key)

	mu.Lock()
	require.Len(t, puts, 1)
	got := puts[0]
	mu.Unlock()
	assert.Equal(t, "/plans/"+key, got.path)
	assert.Equal(t, "application/json", got.contentType)
	var stored Transcript
	require.NoError(t, json.Unmarshal(got.body, &stored))
	assert.Equal(t, "malformed_plan", stored.Outcome)
	assert.Equal(t, "not json", stored.Raw)

	url, err := archive.PresignDownload(t.Context(), key, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, srv.URL+"/plans/transcripts/"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
}
