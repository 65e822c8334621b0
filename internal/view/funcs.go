package view

import (
	"errors"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
)

var statusClasses = map[string]string{
	"active":      "bg-green-100 text-green-700",
	"completed":   "bg-green-100 text-green-700",
	"succeeded":   "bg-green-100 text-green-700",
	"paid":        "bg-purple-100 text-purple-700",
	"signed":      "bg-blue-100 text-blue-700",
	"processing":  "bg-blue-100 text-blue-700",
	"sent":        "bg-blue-100 text-blue-700",
	"delivered":   "bg-blue-100 text-blue-700",
	"in_progress": "bg-blue-100 text-blue-700",
	"submitted":   "bg-yellow-100 text-yellow-700",
	"pending":     "bg-yellow-100 text-yellow-700",
	"rejected":    "bg-red-100 text-red-700",
	"declined":    "bg-red-100 text-red-700",
	"failed":      "bg-red-100 text-red-700",
	"inactive":    "bg-gray-100 text-gray-700",
}

// StatusClass maps any submission, signature, payment or client status to
// its badge colours.
func StatusClass(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if c, ok := statusClasses[status]; ok {
		return c
	}
	if strings.HasPrefix(status, "awaiting_") {
		return "bg-yellow-100 text-yellow-700"
	}
	return "bg-gray-100 text-gray-700"
}

// Humanize turns "awaiting_signature" into "Awaiting Signature".
func Humanize(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Money prefixes an amount with a dollar sign, or "-" when unset.
func Money(amount string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "-"
	}
	return "$" + strings.TrimPrefix(amount, "$")
}

// Short abbreviates an id for table display.
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"statusClass": StatusClass,
		"humanize":    Humanize,
		"money":       Money,
		"date":        service.FormatDate,
		"value":       models.FormatValue,
		"short":       Short,
		"dict":        dict,
		"inc":         func(i int) int { return i + 1 },
		"orDefault": func(fallback, v string) string {
			if v == "" {
				return fallback
			}
			return v
		},
	}
}
