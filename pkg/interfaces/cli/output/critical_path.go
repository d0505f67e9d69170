package output

import (
	"fmt"
	"io"

	"github.com/vsinha/factorysim/pkg/application/services/criticalpath"
)

// PrintCriticalPaths writes the binding chains of an analysis, latest order first
func PrintCriticalPaths(w io.Writer, analysis *criticalpath.Analysis) {
	fmt.Fprintf(w, "Critical Path Analysis\n")
	fmt.Fprintf(w, "======================\n\n")
	if analysis == nil || analysis.TotalPaths == 0 {
		fmt.Fprintf(w, "No closed orders\n\n")
		return
	}

	fmt.Fprintf(w, "Closed Orders: %d\n", analysis.TotalPaths)
	for i, path := range analysis.TopPaths {
		fmt.Fprintf(w, "\n#%d %s: done at %d, span %d, %d steps\n",
			i+1, path.OrderNr, path.CompletionTime, path.Span, len(path.Steps))
		for _, s := range path.Steps {
			fmt.Fprintf(w, "  %4d-%-4d %-28s %-10s %4d  %s\n",
				s.ScheduledAt, s.CompletedAt, s.Kind, s.Item, s.Amount, s.Resource)
		}
	}
	fmt.Fprintln(w)
}
