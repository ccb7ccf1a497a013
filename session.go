package rag

import "time"

// Session is a client-side transcript of one conversation. Its ID is the
// server-side memory key sent with every query.
type Session struct {
	ID        string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Turn is one answered (or failed) question.
type Turn struct {
	Question string
	Answer   Answer
	Err      string // non-empty when the question failed
	AskedAt  time.Time
}

// Record appends a turn and advances UpdatedAt. A failed turn keeps any
// partial answer text.
func (s *Session) Record(question string, ans Answer, err error, at time.Time) {
	t := Turn{Question: question, Answer: ans, AskedAt: at}
	if err != nil {
		t.Err = err.Error()
	}
	if s.ID == "" && ans.SessionID != "" {
		s.ID = ans.SessionID
	}
	s.Turns = append(s.Turns, t)
	s.UpdatedAt = at
}
