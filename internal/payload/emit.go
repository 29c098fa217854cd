package payload

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"github.com/michaellee1019/working-wheel/internal/logger"
	"github.com/michaellee1019/working-wheel/internal/ui"
)

// Emitter delivers a rendered payload to the user: stdout always, the
// clipboard best-effort.
type Emitter struct {
	Out io.Writer
	// Copy places text on the system clipboard. Tests substitute it.
	Copy func(text string) error
}

func NewEmitter(out io.Writer) *Emitter {
	return &Emitter{
		Out:  out,
		Copy: clipboard.WriteAll,
	}
}

// Emit prints the payload and, when asked, copies it to the clipboard.
// A clipboard failure is only a warning: the JSON is already on stdout as
// the fallback delivery path.
func (e *Emitter) Emit(p *Payload, withClipboard bool) error {
	rendered, err := p.Render()
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	fmt.Fprintln(e.Out)
	fmt.Fprintln(e.Out, ui.Divider)
	fmt.Fprintln(e.Out, "DO_COMMAND PAYLOAD")
	fmt.Fprintln(e.Out, ui.Divider)
	fmt.Fprintln(e.Out, rendered)
	fmt.Fprintln(e.Out, ui.Divider)

	if !withClipboard {
		return nil
	}

	if err := e.Copy(rendered); err != nil {
		logger.Warn("clipboard copy failed, use the JSON printed above", "error", err)
		fmt.Fprintf(e.Out, "\n%s Could not copy to clipboard: %v\n", ui.Warning, err)
		return nil
	}

	fmt.Fprintf(e.Out, "\n%s Payload copied to clipboard!\n", ui.Check)
	fmt.Fprintln(e.Out, "Paste it into the DoCommand panel of the calendar service on your machine.")
	return nil
}
