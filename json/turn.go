package json

import (
	"errors"
	"time"

	"github.com/adamani-ai/rag"
)

type turnDTO struct {
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Sources   []sourceDTO `json:"sources,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	Error     *string     `json:"error,omitempty"`
	AskedAt   time.Time   `json:"asked_at"`
}

type sourceDTO struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func marshalTurn(t rag.Turn) turnDTO {
	dto := turnDTO{
		Question:  t.Question,
		Answer:    t.Answer.Text,
		SessionID: t.Answer.SessionID,
		AskedAt:   t.AskedAt,
	}
	if t.Err != "" {
		dto.Error = &t.Err
	}
	if len(t.Answer.Sources) > 0 {
		dto.Sources = make([]sourceDTO, len(t.Answer.Sources))
		for i, s := range t.Answer.Sources {
			dto.Sources[i] = sourceDTO{Content: s.Content, Metadata: s.Metadata}
		}
	}
	return dto
}

func unmarshalTurn(dto turnDTO) (rag.Turn, error) {
	if dto.Question == "" {
		return rag.Turn{}, errors.New("turn has no question")
	}
	t := rag.Turn{
		Question: dto.Question,
		Answer:   rag.Answer{Text: dto.Answer, SessionID: dto.SessionID},
		AskedAt:  dto.AskedAt,
	}
	if dto.Error != nil {
		t.Err = *dto.Error
	}
	if len(dto.Sources) > 0 {
		t.Answer.Sources = make([]rag.Source, len(dto.Sources))
		for i, s := range dto.Sources {
			t.Answer.Sources[i] = rag.Source{Content: s.Content, Metadata: s.Metadata}
		}
	}
	return t, nil
}
