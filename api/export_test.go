package api

import (
	"io"
	"log/slog"

	"github.com/adamani-ai/rag"
)

// NewStream exposes the frame reader for tests that control chunking.
func NewStream(body io.ReadCloser, logger *slog.Logger) rag.Stream {
	return newStream(body, logger)
}

// DecodeFrame exposes decodeFrame for tests.
var DecodeFrame = decodeFrame

// FramePayload exposes framePayload for tests.
var FramePayload = framePayload
