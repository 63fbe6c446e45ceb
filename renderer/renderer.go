// Package renderer turns dues reports into markdown.
//
// Each file of templates/ is a template named after the file without its
// extension, and any template can include another one by that name.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

var parsed = sync.OnceValues(func() (*template.Template, error) {
	files, err := fs.Glob(templatesFS, "templates/*.md")
	if err != nil {
		return nil, err
	}
	root := template.New("")
	for _, file := range files {
		src, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(file[len("templates/"):], ".md")
		if _, err := root.New(name).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("template %s: %w", file, err)
		}
	}
	return root, nil
})

// render executes the named template. Errors are rendered in place of the
// report so that they show up where the report was expected.
func render(name string, data any) string {
	t, err := parsed()
	if err != nil {
		return fmt.Sprintf("error parsing templates: %v\n", err)
	}
	var b strings.Builder
	if err := t.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error rendering %s: %v\n", name, err)
	}
	return b.String()
}

// RenderBalances renders the balance report. An unavailable report renders a
// warning and no balance.
func RenderBalances(b *Balances) string { return render("balances", b) }

// RenderOrphans renders only the unmatched payments of a report.
func RenderOrphans(b *Balances) string {
	switch {
	case !b.Available:
		return render("unavailable", b)
	case len(b.Orphans) == 0:
		return "Every payment matches a unit of the roster.\n"
	}
	return render("balances_orphans", b)
}

// RenderStatement renders the statement of a single unit.
func RenderStatement(s *Statement) string { return render("statement", s) }

// RenderExpenses renders an expense summary.
func RenderExpenses(e *Expenses) string { return render("expenses", e) }
