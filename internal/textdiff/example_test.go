package textdiff_test

import (
	"context"
	"fmt"

	"pdfcompare/internal/textdiff"
	"pdfcompare/internal/tokens"
	"pdfcompare/internal/tokens/tokentest"
)

// Example compares one page of two revisions held in memory.
func Example() {
	src := tokentest.NewSource().
		Add("rev-a.pdf", &tokens.Page{Width: 100, Height: 100, Tokens: []tokens.Token{
			tokentest.Tok("DIA1", 10, 10, 20, 5),
			tokentest.Tok("--|", 50, 10, 10, 5),
		}}).
		Add("rev-b.pdf", &tokens.Page{Width: 100, Height: 100, Tokens: []tokens.Token{
			tokentest.Tok("DIA1", 10, 10, 20, 5),
			tokentest.Tok("-|", 52, 10, 8, 5),
		}})

	result, err := textdiff.NewService(src).DiffPage(context.Background(), "rev-a.pdf", "rev-b.pdf", 1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, m := range result.Left {
		fmt.Printf("removed %s severity=%d\n", m.Text, m.Severity)
	}
	for _, m := range result.Right {
		fmt.Printf("added %s severity=%d improved=%t\n", m.Text, m.Severity, m.Improved)
	}
	// Output:
	// removed --| severity=2
	// added -| severity=1 improved=true
}

func ExampleSeverity() {
	for _, s := range []string{"---|", "-|", "|", "12.5", "DIA"} {
		fmt.Printf("%q %d %d\n", s, textdiff.Severity(s), textdiff.DashMetric(s))
	}
	// Output:
	// "---|" 3 4
	// "-|" 1 2
	// "|" 0 1
	// "12.5" -1 0
	// "DIA" -1 0
}
