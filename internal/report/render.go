package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render writes a result table in aligned columns.
func Render(w io.Writer, table *Table) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", table.Title, strings.Repeat("-", len(table.Title))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)
	return err
}
