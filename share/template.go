package share

import (
	"html/template"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	TemplateFuncMap = template.FuncMap{
		"fn": func(value interface{}) string {
			switch e := value.(type) {
			case float32:
				return humanize.CommafWithDigits(float64(e), 1)
			case float64:
				return humanize.CommafWithDigits(e, 1)
			case int:
				return humanize.Comma(int64(e))
			case int64:
				return humanize.Comma(e)
			}
			return ""
		},
		"duration": func(ms int64) string {
			d := time.Duration(ms) * time.Millisecond
			return d.Truncate(time.Second).String()
		},
		"spellURL": func(id int) string {
			return "https://www.wowhead.com/spell=" + strconv.Itoa(id)
		},
	}
)
