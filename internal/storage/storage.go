package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Transcript is the full record of one generation attempt: what was sent to
// the model and what came back.
type Transcript struct {
	Kind      string    `json:"kind"`
	ClientID  string    `json:"clientId"`
	Week      int       `json:"week"`
	Model     string    `json:"model"`
	Backend   string    `json:"backend"`
	Prompt    string    `json:"prompt"`
	Raw       string    `json:"raw"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TranscriptArchive stores generation transcripts for later diagnosis.
type TranscriptArchive interface {
	// Put stores the transcript and returns its object key.
	Put(ctx context.Context, t Transcript) (string, error)

	// PresignDownload creates a temporary URL that allows GET requests
	// for downloading a stored transcript.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// TranscriptKey builds the object key of a transcript:
// <prefix>/<client>/<kind>/<yyyy>/<mm>/<dd>/<hhmmss>-<uuid>.json
func TranscriptKey(prefix string, t Transcript) string {
	at := t.CreatedAt.UTC()
	name := fmt.Sprintf("%s-%s.json", at.Format("150405"), uuid.NewString())
	return path.Join(prefix, t.ClientID, t.Kind, at.Format("2006/01/02"), name)
}

// noopArchive is used when no bucket is configured.
type noopArchive struct{}

// NewNoopArchive returns an archive that stores nothing.
func NewNoopArchive() TranscriptArchive {
	return noopArchive{}
}

func (noopArchive) Put(context.Context, Transcript) (string, error) {
	return "", nil
}

func (noopArchive) PresignDownload(context.Context, string, time.Duration) (string, error) {
	return "", nil
}
