package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"foodShare/internal/config"
	"foodShare/models"
)

// renderListings writes one line per listing (plain) or a table.
func renderListings(w io.Writer, listings []models.Listing, format config.OutputFormat) {
	if format != config.OutputTable {
		for _, l := range listings {
			_, _ = fmt.Fprintln(w, l.String())
		}
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Area", "Food", "Quantity", "Contact"})
	t.AppendRows(lo.Map(listings, func(l models.Listing, _ int) table.Row {
		return table.Row{l.ID, l.Area, l.Food, l.Quantity, l.Contact}
	}))
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d listings)\n", len(listings))
}
