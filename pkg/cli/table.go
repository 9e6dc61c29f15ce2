package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Table prints aligned columns. The header and its dash underline are
// emitted with the first row, so a table without rows prints nothing.
type Table struct {
	tw      *tabwriter.Writer
	headers []string
	indent  string
	started bool
}

// NewTable returns a table printing to stdout.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo returns a table printing to out.
func NewTableTo(out io.Writer, headers ...string) *Table {
	return &Table{tw: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0), headers: headers}
}

// WithPrefix indents every line of the table by prefix.
func (t *Table) WithPrefix(prefix string) *Table {
	t.indent = prefix
	return t
}

// Row adds one row of cells.
func (t *Table) Row(cells ...string) {
	if !t.started {
		t.started = true
		t.line(t.headers)
		underline := make([]string, len(t.headers))
		for i, h := range t.headers {
			underline[i] = strings.Repeat("-", len(h))
		}
		t.line(underline)
	}
	t.line(cells)
}

// Flush writes the buffered rows.
func (t *Table) Flush() {
	if t.started {
		t.tw.Flush()
	}
}

func (t *Table) line(cells []string) {
	fmt.Fprintln(t.tw, t.indent+strings.Join(cells, "\t"))
}
