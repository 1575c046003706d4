package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"golang.org/x/term"
)

const (
	defaultWrap = 80
	maxWrap     = 120
)

// Markdown renders a task description for the terminal. Without color the
// plain notty style is used; if rendering fails the source text is returned.
func Markdown(src string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrapWidth())}
	if colorEnabled {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(styles.NoTTYStyle))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return withNewline(src)
	}
	out, err := r.Render(src)
	if err != nil {
		return withNewline(src)
	}
	return out
}

func wrapWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWrap
	}
	return min(width, maxWrap)
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
