package prompttmpl

import (
	"bytes"
	"strings"
	"text/template"
)

// defaultFuncs are available to every template parsed here.
var defaultFuncs = template.FuncMap{
	"join": func(items []string, sep string) string { return strings.Join(items, sep) },
}

// Parse compiles source with missingkey=error. funcs may override the
// defaults.
func Parse(name, source string, funcs template.FuncMap) (*template.Template, error) {
	merged := template.FuncMap{}
	for k, v := range defaultFuncs {
		merged[k] = v
	}
	for k, v := range funcs {
		merged[k] = v
	}
	return template.New(name).Option("missingkey=error").Funcs(merged).Parse(source)
}

func MustParse(name, source string, funcs template.FuncMap) *template.Template {
	t, err := Parse(name, source, funcs)
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes t and trims surrounding whitespace from the result.
func Render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
