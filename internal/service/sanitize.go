package service

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultAllowedTags are the only elements kept in shopping list markup.
var DefaultAllowedTags = []string{"div", "h3", "ul", "li", "span", "button"}

// Sanitizer strips every element not in its allow-list. Text content of
// removed elements is kept. Attributes are always dropped.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer(tags ...string) *Sanitizer {
	if len(tags) == 0 {
		tags = DefaultAllowedTags
	}
	p := bluemonday.NewPolicy()
	p.AllowElements(tags...)
	return &Sanitizer{policy: p}
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}

// Category is one heading of the shopping list and its items.
type Category struct {
	Name  string   `json:"category"`
	Items []string `json:"items"`
}

// ExtractCategories reads h3 headings and the list items that follow each of
// them until the next heading.
func ExtractCategories(html string) ([]Category, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse shopping list markup: %w", err)
	}

	categories := []Category{}
	doc.Find("h3").Each(func(_ int, h *goquery.Selection) {
		name := strings.TrimSpace(h.Text())
		if name == "" {
			return
		}
		items := []string{}
		h.NextUntil("h3").Filter("ul").Find("li").Each(func(_ int, li *goquery.Selection) {
			if item := strings.TrimSpace(li.Text()); item != "" {
				items = append(items, item)
			}
		})
		categories = append(categories, Category{Name: name, Items: items})
	})
	return categories, nil
}
