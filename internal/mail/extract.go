package mail

import (
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/microcosm-cc/bluemonday"
)

// MaxTokenLength is the length from which a whitespace-delimited token is
// treated as noise (base64 blobs, tracking URLs) and removed.
const MaxTokenLength = 16

// TextExtractor turns a message tree into a plain-text body.
type TextExtractor interface {
	ExtractBody(e *message.Entity) (string, error)
}

var (
	// closing block tags get a newline so paragraphs survive tag stripping
	blockEndRe   = regexp.MustCompile(`(?i)(</(p|div|li|tr|h[1-6]|blockquote|pre|ul|ol|table)>|<br\s*/?>)`)
	cssRuleRe    = regexp.MustCompile(`\b\w+\s*\{[^}]*\}`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n+`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// Extractor is the default TextExtractor, backed by a bluemonday policy that
// keeps no markup at all.
type Extractor struct {
	policy *bluemonday.Policy
}

func NewExtractor() *Extractor {
	p := bluemonday.StrictPolicy()
	// script, style, title and friends are skipped by default
	p.SkipElementsContent("head", "svg", "template")
	return &Extractor{policy: p}
}

var errFound = errors.New("plain text part found")

// ExtractBody walks the tree depth-first. The first text/plain leaf wins; if
// there is none, the first text/html leaf is sanitized and returned instead.
// The entity is consumed.
func (x *Extractor) ExtractBody(e *message.Entity) (string, error) {
	var plain, htmlBody string
	var havePlain, haveHTML bool

	err := e.Walk(func(path []int, part *message.Entity, err error) error {
		if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
			return err
		}
		t, _, _ := part.Header.ContentType()
		if !part.Header.Has("Content-Type") {
			t = "text/plain"
		}
		switch {
		case t == "text/plain":
			b, err := io.ReadAll(part.Body)
			if err != nil {
				return fmt.Errorf("reading text part: %w", err)
			}
			plain, havePlain = string(b), true
			return errFound
		case t == "text/html" && !haveHTML:
			b, err := io.ReadAll(part.Body)
			if err != nil {
				return fmt.Errorf("reading html part: %w", err)
			}
			htmlBody, haveHTML = string(b), true
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}

	if havePlain {
		return plain, nil
	}
	if haveHTML {
		return x.SanitizeHTML(htmlBody), nil
	}
	return "", nil
}

// SanitizeHTML reduces an HTML document to its visible text: no tags, no
// scripts or styles, no comments, no stray CSS rules, blank-line runs
// collapsed to one.
func (x *Extractor) SanitizeHTML(doc string) string {
	doc = blockEndRe.ReplaceAllString(doc, "$1\n")
	text := html.UnescapeString(x.policy.Sanitize(doc))
	text = cssRuleRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n\n"))
}

// CleanBody drops quoted lines, cuts at the signature delimiter and
// collapses runs of blank lines.
func CleanBody(text string) string {
	var kept []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(line, ">") {
			continue
		}
		if strings.TrimSpace(line) == "--" {
			break
		}
		kept = append(kept, line)
	}

	text = newlineRunRe.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// StripLongTokens removes every whitespace-delimited token of MaxTokenLength
// runes or more. Spacing inside a line is collapsed; line breaks are kept.
func StripLongTokens(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		kept := fields[:0]
		for _, f := range fields {
			if len([]rune(f)) < MaxTokenLength {
				kept = append(kept, f)
			}
		}
		lines[i] = strings.Join(kept, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
