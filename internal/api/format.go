package api

import (
	"fmt"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice renders cents as US dollars, e.g. 12900 -> "$129.00"
func FormatPrice(cents int64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("$%.2f", float64(cents)/100)
}

func formatRating(rating float64) string {
	return fmt.Sprintf("%.1f", rating)
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

var templateFuncs = template.FuncMap{
	"price":  FormatPrice,
	"rating": formatRating,
	"items":  pluralItems,
	"add":    func(a, b int) int { return a + b },
	"sub":    func(a, b int) int { return a - b },
}
