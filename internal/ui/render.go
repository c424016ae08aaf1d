package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Renderer wraps the styled output path for game text. When color is off
// (pipe, NO_COLOR) everything degrades to plain text.
type Renderer struct {
	color    bool
	markdown *glamour.TermRenderer
}

// NewRenderer builds a renderer sized to the terminal.
func NewRenderer() *Renderer {
	r := &Renderer{color: ShouldUseColor()}
	if r.color {
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrapWidth()),
		); err == nil {
			r.markdown = md
		}
	}
	return r
}

func wrapWidth() int {
	w := GetWidth()
	if w > 100 {
		w = 100
	}
	return w
}

// Narration renders the main reply message.
func (r *Renderer) Narration(text string) string {
	if !r.color {
		return text
	}
	return NarrationStyle.Width(wrapWidth()).Render(text)
}

// Beats renders turn-phase messages, one per line.
func (r *Renderer) Beats(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	joined := strings.Join(msgs, "\n")
	if !r.color {
		return joined
	}
	return BeatStyle.Render(joined)
}

// Error renders a failure message; fatal failures are emphasised.
func (r *Renderer) Error(message string, fatal bool) string {
	if !r.color {
		return message
	}
	if fatal {
		return FatalStyle.Render(message)
	}
	return ErrorStyle.Render(message)
}

// Title renders the game banner.
func (r *Renderer) Title(text string) string {
	if !r.color {
		return text
	}
	return TitleStyle.Render(text)
}

// Markdown renders help and other markdown text through glamour, falling
// back to the raw source without a TTY.
func (r *Renderer) Markdown(src string) string {
	if r.markdown == nil {
		return src
	}
	out, err := r.markdown.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

// ClearScreen clears the terminal when attached to a TTY.
func (r *Renderer) ClearScreen() {
	if !r.color {
		return
	}
	termenv.DefaultOutput().ClearScreen()
}
