// Package deliver implements the text delivery component: on a completed
// transcription it applies a configured substring substitution, then either
// sets the clipboard or synthesizes a paste keystroke depending on
// configuration.
package deliver

import (
	"strings"

	"github.com/lokutor-ai/pushkey/pkg/registry"
)

// Inserter is the narrow external collaborator this component drives —
// clipboard and paste-simulation mechanics are platform-specific and out
// of scope; callers supply a real implementation or a logging stub.
type Inserter interface {
	SetClipboard(text string) error
	InsertAtCursor(text string) error
}

type Logger interface {
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Substitution is a single ordered find/replace applied to transcribed
// text before delivery.
type Substitution struct {
	Find    string
	Replace string
}

type Component struct {
	registry.BaseComponent

	inserter      Inserter
	log           Logger
	paste         bool
	substitutions []Substitution
}

func New(inserter Inserter, log Logger, paste bool, substitutions []Substitution) *Component {
	if log == nil {
		log = noopLogger{}
	}
	return &Component{
		BaseComponent: registry.BaseComponent{ComponentName: "TextDelivery", Mode: registry.Sequential},
		inserter:      inserter,
		log:           log,
		paste:         paste,
		substitutions: substitutions,
	}
}

func (c *Component) applySubstitutions(text string) string {
	for _, s := range c.substitutions {
		text = strings.ReplaceAll(text, s.Find, s.Replace)
	}
	return text
}

func (c *Component) OnProcessingComplete(text string) error {
	if text == "" {
		c.log.Warn("deliver: empty transcription received")
		return nil
	}
	text = c.applySubstitutions(text)

	if c.inserter == nil {
		c.log.Warn("deliver: no inserter configured, dropping transcription", "chars", len(text))
		return nil
	}
	if c.paste {
		return c.inserter.InsertAtCursor(text)
	}
	return c.inserter.SetClipboard(text)
}

func (c *Component) OnPartialProcessingComplete(text string) error {
	if text == "" {
		c.log.Warn("deliver: empty partial transcription received")
	}
	return nil
}

func (c *Component) OnError(errText string) error {
	c.log.Error("deliver: transcription failed", "error", errText)
	return nil
}
