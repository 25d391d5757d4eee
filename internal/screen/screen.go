package screen

import (
	"github.com/abhisek/echotutor/internal/ui/layout"
)

// Screen renders one session state. Screens hold no input state of their
// own: the app rebuilds them from every published snapshot.
type Screen interface {
	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string

	// KeyHints lists the keys that do something in the current mode.
	KeyHints() []layout.KeyHint
}
