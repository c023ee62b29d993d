package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"perso/internal/logging"
	"perso/internal/prompts"

	"github.com/emersion/go-mbox"
)

// SummaryPrompt prefixes the digests handed to the model.
var SummaryPrompt = prompts.SummaryPrefix()

var (
	ErrMailboxUnset   = errors.New("chemin du mbox non défini dans la configuration")
	ErrMailboxMissing = errors.New("pas de mbox")
)

// MailSummarizer produces the summarization prompt for a mailbox.
type MailSummarizer interface {
	Summarize(ctx context.Context) (string, error)
}

// MboxSummarizer reads every message of an mbox file.
type MboxSummarizer struct {
	path      string
	label     string
	extractor *Extractor
	logger    *logging.AppLogger
}

// NewMboxSummarizer reads the mailbox at path; label is the configured source
// name and only shows up in logs.
func NewMboxSummarizer(path, label string, extractor *Extractor, logger *logging.AppLogger) *MboxSummarizer {
	return &MboxSummarizer{
		path:      path,
		label:     label,
		extractor: extractor,
		logger:    logger,
	}
}

// Digests returns one digest per message, in mailbox order. Messages that
// cannot be parsed are skipped.
func (s *MboxSummarizer) Digests(ctx context.Context) ([]Digest, error) {
	if s.path == "" {
		return nil, ErrMailboxUnset
	}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w à %s", ErrMailboxMissing, s.path)
		}
		return nil, fmt.Errorf("opening mailbox: %w", err)
	}
	defer f.Close()

	start := time.Now()
	defer s.logger.LogPerformance("mbox digest", start)

	var digests []Digest
	r := mbox.NewReader(f)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msg, err := r.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading mailbox: %w", err)
		}

		d, err := s.extractor.Digest(msg)
		if err != nil {
			s.logger.Warn("Skipping unreadable message", "mbox", s.label, "index", i, "error", err)
			continue
		}
		digests = append(digests, d)
	}

	s.logger.Debug("Mailbox read", "mbox", s.label, "path", s.path, "messages", len(digests))
	return digests, nil
}

// Summarize returns SummaryPrompt followed by the indented JSON digest of
// every message. An empty mailbox yields the prompt alone.
func (s *MboxSummarizer) Summarize(ctx context.Context) (string, error) {
	digests, err := s.Digests(ctx)
	if err != nil {
		return "", err
	}
	if len(digests) == 0 {
		return SummaryPrompt, nil
	}

	parts := make([]string, 0, len(digests))
	for _, d := range digests {
		js, err := MarshalDigest(d, true)
		if err != nil {
			return "", fmt.Errorf("encoding digest: %w", err)
		}
		parts = append(parts, js)
	}
	return SummaryPrompt + "\n" + strings.Join(parts, "\n"), nil
}
