package insert

import (
	"fmt"
	"strings"

	cb "github.com/atotto/clipboard"
	"github.com/go-vgo/robotgo"
)

// Desktop is the real Inserter: robotgo for keystroke simulation,
// atotto/clipboard for clipboard writes.
type Desktop struct{}

func NewDesktop() Desktop {
	return Desktop{}
}

// Type simulates keystrokes for text followed by a trailing space, so
// consecutive utterances don't run together in the target application.
func (Desktop) Type(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	robotgo.TypeStr(text + " ")
	return nil
}

func (Desktop) Clipboard(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := cb.WriteAll(text + " "); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
