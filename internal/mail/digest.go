package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/emersion/go-message"
)

// Digest is the compact view of one message handed to the summarizing model.
type Digest struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// Digest reads one RFC 822 message and returns its headers and cleaned body.
// Unknown charsets and transfer encodings are tolerated: the raw text is
// used instead.
func (x *Extractor) Digest(r io.Reader) (Digest, error) {
	e, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return Digest{}, fmt.Errorf("parsing message: %w", err)
	}

	d := Digest{
		From:    headerText(e.Header, "From"),
		Subject: headerText(e.Header, "Subject"),
		Date:    e.Header.Get("Date"),
	}

	body, err := x.ExtractBody(e)
	if err != nil {
		return Digest{}, fmt.Errorf("extracting body: %w", err)
	}
	d.Body = StripLongTokens(CleanBody(body))

	return d, nil
}

func headerText(h message.Header, key string) string {
	// on an unknown charset the raw value comes back with the error
	v, _ := h.Text(key)
	return v
}

// MarshalDigest renders d as JSON without HTML escaping. With indent set the
// output spans several lines.
func MarshalDigest(d Digest, indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
