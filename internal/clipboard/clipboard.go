// Package clipboard reads the X11 PRIMARY selection and encodes it as the
// JSON string payload returned by the prompt-context tools.
package clipboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"perso/internal/logging"

	"github.com/atotto/clipboard"
)

// X11SocketDir holds one socket per running X display.
const X11SocketDir = "/tmp/.X11-unix"

// ErrEmpty is returned when the selection holds no text.
var ErrEmpty = errors.New("Presse-papiers PRIMARY vide")

// ToolError reports a failure of the external clipboard utility itself.
type ToolError struct {
	Err error
}

func (e *ToolError) Error() string {
	return "Erreur xclip: " + e.Err.Error()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Reader returns the current selection text.
type Reader interface {
	Read(ctx context.Context) (string, error)
}

// System reads the PRIMARY selection through xclip/xsel.
type System struct {
	socketDir string
	logger    *logging.AppLogger
}

func NewSystem(logger *logging.AppLogger) *System {
	return &System{
		socketDir: X11SocketDir,
		logger:    logger,
	}
}

func (s *System) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if clipboard.Unsupported {
		return "", &ToolError{Err: errors.New("aucun utilitaire de presse-papiers disponible")}
	}

	current := os.Getenv("DISPLAY")
	if display := DetectDisplay(current, s.socketDir); display != current {
		// the clipboard utility inherits the process environment
		if err := os.Setenv("DISPLAY", display); err != nil {
			return "", fmt.Errorf("setting DISPLAY: %w", err)
		}
		s.logger.Debug("Display detected", "display", display)
	}

	clipboard.Primary = true
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", &ToolError{Err: err}
	}
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// DetectDisplay keeps current unless it is empty or the default ":0", in
// which case the first socket in dir names the display (X1 -> ":1").
func DetectDisplay(current, dir string) string {
	if current != "" && current != ":0" {
		return current
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return current
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "X") {
			return ":" + strings.TrimPrefix(entry.Name(), "X")
		}
	}
	return current
}

// Encode returns s as a JSON string literal, non-ASCII and HTML kept as is.
func Encode(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// a string always encodes
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// Describe renders a Read failure as the JSON string handed back to the
// model in place of the selection.
func Describe(err error) string {
	var toolErr *ToolError
	switch {
	case errors.Is(err, ErrEmpty):
		return Encode(ErrEmpty.Error())
	case errors.As(err, &toolErr):
		return Encode(toolErr.Error())
	default:
		return Encode("Erreur: " + err.Error())
	}
}

// Payload reads the selection and returns it JSON-encoded, or the encoded
// failure description.
func Payload(ctx context.Context, r Reader) (string, error) {
	text, err := r.Read(ctx)
	if err != nil {
		return Describe(err), err
	}
	return Encode(text), nil
}
