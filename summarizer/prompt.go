package summarizer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"review-digest/models"
)

// SelectReviews returns up to k texts of the product's reviews with the given
// sentiment, in table order. Reviews are matched by product name only.
func SelectReviews(reviews []models.Review, name, sentiment string, k int) []string {
	var out []string
	for _, r := range reviews {
		if k > 0 && len(out) >= k {
			break
		}
		if r.Name == name && r.Sentiment == sentiment {
			out = append(out, r.Text)
		}
	}
	return out
}

// BuildPrompt builds the user prompt asking for a short technical summary.
func BuildPrompt(product string, texts []string) string {
	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		cleaned = append(cleaned, StripMarkup(t))
	}

	var b strings.Builder
	b.WriteString("You are an expert product reviewer.\n")
	fmt.Fprintf(&b, "Summarize the following customer reviews for the product, please write a maximum 5 lines summary, should be very tech-oriented '%s':\n\n", product)
	b.WriteString(strings.Join(cleaned, "\n\n"))
	return b.String()
}

// StripMarkup drops HTML tags from a review and unescapes entities.
// Text without markup is returned unchanged.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(b.String())
			}
			return s
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" || string(name) == "p" {
				b.WriteByte('\n')
			}
		}
	}
}
