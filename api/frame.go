package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/adamani-ai/rag"
)

// maxFrameSize bounds a single stream frame. A sources frame carrying K
// long excerpts is the largest expected payload.
const maxFrameSize = 4 << 20

var (
	lfBoundary   = []byte("\n\n")
	crlfBoundary = []byte("\r\n\r\n")
)

// splitFrames is a bufio.SplitFunc yielding one event-stream frame per
// token. Frames end at a blank line. Bytes after the last boundary stay
// buffered until more data arrives; at end of input they form a final
// frame.
func splitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i, n := frameBoundary(data); i >= 0 {
		return i + n, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// frameBoundary returns the index and length of the earliest frame
// boundary in data, or -1.
func frameBoundary(data []byte) (int, int) {
	i := bytes.Index(data, lfBoundary)
	j := bytes.Index(data, crlfBoundary)
	switch {
	case i < 0 && j < 0:
		return -1, 0
	case j < 0 || (i >= 0 && i < j):
		return i, len(lfBoundary)
	default:
		return j, len(crlfBoundary)
	}
}

// framePayload joins the "data:" lines of a frame. Frames without data
// lines (comments, keep-alives, bare event or id fields) report false.
func framePayload(frame []byte) (string, bool) {
	var lines []string
	for _, line := range strings.Split(string(frame), "\n") {
		line = strings.TrimSuffix(line, "\r")
		v, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		lines = append(lines, strings.TrimPrefix(v, " "))
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

type wireFrame struct {
	Type    string      `json:"type"`
	Token   *string     `json:"token"`
	Sources []sourceDTO `json:"sources"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
}

// decodeFrame maps a frame payload to an event. Unknown frame types decode
// to a nil event and no error.
func decodeFrame(payload string) (rag.Event, error) {
	var f wireFrame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return nil, &rag.FrameDecodeError{Frame: payload, Err: err}
	}

	switch f.Type {
	case "token":
		if f.Token == nil {
			return nil, &rag.FrameDecodeError{Frame: payload, Err: errors.New("token frame has no token")}
		}
		return rag.EventToken{Token: *f.Token}, nil
	case "sources":
		if f.Sources == nil {
			return nil, &rag.FrameDecodeError{Frame: payload, Err: errors.New("sources frame has no sources")}
		}
		return rag.EventSources{Sources: toSources(f.Sources)}, nil
	case "end":
		return rag.EventEnd{}, nil
	case "error":
		msg := f.Error
		if msg == "" {
			msg = f.Message
		}
		if msg == "" {
			msg = "stream reported an error without a message"
		}
		return rag.EventError{Message: msg}, nil
	case "":
		return nil, &rag.FrameDecodeError{Frame: payload, Err: errors.New("frame has no type")}
	default:
		return nil, nil
	}
}
