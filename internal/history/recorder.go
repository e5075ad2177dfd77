package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertrainer/internal/domain"
)

// Recorder writes one PHH file per settled hand into a directory. A failed
// write is logged and swallowed: the transcript is a convenience, never a
// reason to disturb the session.
type Recorder struct {
	dir    string
	logger *log.Logger
}

// NewRecorder creates a recorder writing into dir, creating it if needed
func NewRecorder(dir string, logger *log.Logger) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	return &Recorder{dir: dir, logger: logger.WithPrefix("history")}, nil
}

// RecordHand implements session.HandRecorder
func (r *Recorder) RecordHand(snapshot *domain.HandSnapshot) {
	hand := FromSnapshot(snapshot, timeNow())

	var buf bytes.Buffer
	if err := hand.Encode(&buf); err != nil {
		r.logger.Warn("Failed to encode hand transcript", "hand", snapshot.HandNumber, "error", err)
		return
	}

	name := fmt.Sprintf("hand_%04d_%s.phh", snapshot.HandNumber, shortID(snapshot.SessionID))
	path := filepath.Join(r.dir, name)
	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		r.logger.Warn("Failed to write hand transcript", "path", path, "error", err)
		return
	}
	r.logger.Debug("Wrote hand transcript", "path", path)
}

// shortID truncates a session id to a filename-friendly prefix
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
