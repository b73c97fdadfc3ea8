package main

import (
	"strings"

	"github.com/mono-ball/MonoBall-sub005/pkg/config"
	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

type classifyRule struct {
	keyword  string
	category string
	color    backend.Color
}

// classifier tags lines by the first configured keyword they contain.
type classifier struct {
	rules      []classifyRule
	categories []string
}

func newClassifier(rules []config.CategoryRule, th *theme.Theme) (*classifier, error) {
	c := &classifier{}
	seen := make(map[string]bool)
	for _, r := range rules {
		color := backend.ColorDefault
		if r.Color != "" {
			resolved, err := th.Resolve(r.Color)
			if err != nil {
				return nil, tperrors.Wrap(err, tperrors.ErrCodeConfigInvalid, "invalid category color").
					WithContext("category", r.Category)
			}
			color = resolved
		}
		c.rules = append(c.rules, classifyRule{
			keyword:  strings.ToLower(r.Keyword),
			category: r.Category,
			color:    color,
		})
		if !seen[r.Category] {
			seen[r.Category] = true
			c.categories = append(c.categories, r.Category)
		}
	}
	return c, nil
}

// Classify returns the color and category of text; unmatched lines get the
// default color and no category.
func (c *classifier) Classify(text string) (backend.Color, string) {
	if c == nil || len(c.rules) == 0 {
		return backend.ColorDefault, ""
	}
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		if strings.Contains(lower, r.keyword) {
			return r.color, r.category
		}
	}
	return backend.ColorDefault, ""
}

// Category returns the category bound to digit key n (1-based).
func (c *classifier) Category(n int) (string, bool) {
	if c == nil || n < 1 || n > len(c.categories) {
		return "", false
	}
	return c.categories[n-1], true
}

func (c *classifier) Categories() []string {
	if c == nil {
		return nil
	}
	return c.categories
}
