package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"linkscout/pkg/failure"
)

// ExtractFields evaluates a named set of CSS selector rules against the
// page and returns the harvested values keyed by rule name. A rule whose
// selector matches nothing maps to nil for All rules and "" for single
// rules, so callers can tell "absent" apart from "matched but empty"
// only through the All form.
func ExtractFields(doc *html.Node, rules map[string]FieldRule) (map[string]any, failure.ClassifiedError) {
	if doc == nil {
		return nil, &ExtractionError{Message: "cannot evaluate field rules against nil document", Cause: ErrCauseNilDocument}
	}

	document := goquery.NewDocumentFromNode(doc)

	fields := make(map[string]any, len(rules))
	for name, rule := range rules {
		selection := document.Find(rule.Selector)
		if rule.All {
			values := make([]string, 0, selection.Length())
			selection.Each(func(_ int, s *goquery.Selection) {
				values = append(values, fieldValue(s, rule.Attribute))
			})
			fields[name] = values
			continue
		}
		if selection.Length() == 0 {
			fields[name] = ""
			continue
		}
		fields[name] = fieldValue(selection.First(), rule.Attribute)
	}

	return fields, nil
}

func fieldValue(s *goquery.Selection, attribute string) string {
	if attribute == "" || attribute == "text" {
		return strings.TrimSpace(s.Text())
	}
	value, _ := s.Attr(attribute)
	return strings.TrimSpace(value)
}
