package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dreamlog/internal/display"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	lucidFg = color.New(color.FgMagenta, color.Bold)
	tagFg   = color.New(color.FgCyan)
	signFg  = color.New(color.FgYellow)
)

var noticeColors = map[display.NoticeKind]*color.Color{
	display.NoticeSuccess: color.New(color.FgGreen),
	display.NoticeInfo:    color.New(color.FgBlue),
	display.NoticeWarning: color.New(color.FgYellow),
	display.NoticeError:   color.New(color.FgRed, color.Bold),
}

// printer shows notices on the command's output streams.
type printer struct {
	out io.Writer
	err io.Writer
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

func (p *printer) Notify(_ context.Context, n display.Notice) {
	c, ok := noticeColors[n.Kind]
	if !ok {
		c = faint
	}
	w := p.out
	if n.Kind == display.NoticeWarning || n.Kind == display.NoticeError {
		w = p.err
	}
	_, _ = fmt.Fprintln(w, c.Sprint(n.Text))
}

// OutputOptions selects machine readable output.
type OutputOptions struct {
	JSON bool
}

func addOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Output as JSON.")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
