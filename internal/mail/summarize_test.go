package mail

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"perso/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMbox = `From alice@example.com Thu Jan  1 12:00:00 2026
From: Alice <alice@example.com>
Subject: Premier
Date: Thu, 01 Jan 2026 12:00:00 +0000
Content-Type: text/plain; charset=utf-8

Bonjour Michel,
> ancien message
Voici le contenu.
--
Alice

From bob@example.com Fri Jan  2 08:30:00 2026
From: bob@example.com
Subject: =?utf-8?q?R=C3=A9union?=
Date: Fri, 02 Jan 2026 08:30:00 +0000
Content-Type: text/html; charset=utf-8

<html><body><p>Rendez-vous <b>demain</b> &agrave; 10h</p></body></html>
`

func writeMbox(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ia_raw.mbox")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestSummarizer(path string) *MboxSummarizer {
	logger, _ := logging.NewTestLogger()
	return NewMboxSummarizer(path, "ia", NewExtractor(), logger)
}

func TestDigest(t *testing.T) {
	raw := "From: sender@example.com\r\nSubject: Test Subject\r\nDate: Mon, 01 Jan 2026 12:00:00 +0000\r\n\r\nThis is the body\r\n"

	d, err := NewExtractor().Digest(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "sender@example.com", d.From)
	assert.Equal(t, "Test Subject", d.Subject)
	assert.Equal(t, "Mon, 01 Jan 2026 12:00:00 +0000", d.Date)
	assert.Equal(t, "This is the body", d.Body)
}

func TestMarshalDigest(t *testing.T) {
	d := Digest{From: "a <a@b.c>", Subject: "s", Date: "d", Body: "x & y"}

	compact, err := MarshalDigest(d, false)
	require.NoError(t, err)
	assert.Equal(t, `{"from":"a <a@b.c>","subject":"s","date":"d","body":"x & y"}`, compact)

	indented, err := MarshalDigest(d, true)
	require.NoError(t, err)
	assert.Contains(t, indented, "\n  \"from\"")
	assert.False(t, strings.HasSuffix(indented, "\n"))
}

func TestMboxSummarizer_Digests(t *testing.T) {
	s := newTestSummarizer(writeMbox(t, testMbox))

	digests, err := s.Digests(context.Background())
	require.NoError(t, err)
	require.Len(t, digests, 2)

	assert.Equal(t, "Premier", digests[0].Subject)
	assert.Equal(t, "Bonjour Michel,\nVoici le contenu.", digests[0].Body)

	assert.Equal(t, "Réunion", digests[1].Subject)
	assert.Equal(t, "Rendez-vous demain à 10h", digests[1].Body)
}

func TestMboxSummarizer_Summarize(t *testing.T) {
	s := newTestSummarizer(writeMbox(t, testMbox))

	out, err := s.Summarize(context.Background())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, SummaryPrompt+"\n"))

	dec := json.NewDecoder(strings.NewReader(strings.TrimPrefix(out, SummaryPrompt)))
	var subjects []string
	for dec.More() {
		var d Digest
		require.NoError(t, dec.Decode(&d))
		subjects = append(subjects, d.Subject)
	}
	assert.Equal(t, []string{"Premier", "Réunion"}, subjects)
}

func TestMboxSummarizer_EmptyMailbox(t *testing.T) {
	s := newTestSummarizer(writeMbox(t, ""))

	out, err := s.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SummaryPrompt, out)
}

func TestMboxSummarizer_Errors(t *testing.T) {
	_, err := newTestSummarizer("").Summarize(context.Background())
	assert.ErrorIs(t, err, ErrMailboxUnset)

	missing := filepath.Join(t.TempDir(), "absent.mbox")
	_, err = newTestSummarizer(missing).Summarize(context.Background())
	assert.ErrorIs(t, err, ErrMailboxMissing)
	assert.Contains(t, err.Error(), "pas de mbox à "+missing)
}

func TestMboxSummarizer_Cancelled(t *testing.T) {
	s := newTestSummarizer(writeMbox(t, testMbox))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Summarize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
