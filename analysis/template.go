package analysis

import (
	"embed"
	"html/template"

	"github.com/bdfreeman1421/WoWAnalyzer/share"
)

var (
	//go:embed template.tmpl.htm
	templateFS embed.FS

	tmplResult = template.Must(
		template.New("template.tmpl.htm").Funcs(share.TemplateFuncMap).ParseFS(templateFS, "template.tmpl.htm"),
	)
)
