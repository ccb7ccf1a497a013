// Package json persists conversation transcripts as JSON files.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adamani-ai/rag"
)

const envelopeVersion = 1

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Turns     []turnDTO `json:"turns"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s rag.Session) ([]byte, error) {
	env := envelope{
		Version:   envelopeVersion,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Turns:     make([]turnDTO, len(s.Turns)),
	}
	for i, t := range s.Turns {
		env.Turns[i] = marshalTurn(t)
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (rag.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return rag.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return rag.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	turns := make([]rag.Turn, len(env.Turns))
	for i, dto := range env.Turns {
		t, err := unmarshalTurn(dto)
		if err != nil {
			return rag.Session{}, fmt.Errorf("turn %d: %w", i, err)
		}
		turns[i] = t
	}
	return rag.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Turns:     turns,
	}, nil
}

// Save writes a Session to a JSON file, creating parent directories as needed.
// The file is replaced atomically.
func Save(path string, s rag.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file. A missing file yields an error
// wrapping fs.ErrNotExist.
func Load(path string) (rag.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rag.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}
