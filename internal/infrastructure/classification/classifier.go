// Package classification assigns a product category and quality tier from
// the free-text fields of an inventory record. The legacy system never
// stored a clean taxonomy, so classification is heuristic and pluggable.
package classification

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
)

// Result is one classification outcome. CategoryKey is empty when no rule
// matched, in which case the product keeps whatever category the record's
// own category name resolved to.
type Result struct {
	CategoryKey string
	QualityTier string
}

// Classifier maps an inventory record to a category and quality tier.
type Classifier interface {
	Classify(rec syncrec.Product) Result
}

// rule matches case-insensitive substrings of the part description.
type rule struct {
	keywords []string
	category string
	tier     string
}

// RuleClassifier is the default keyword-table classifier. Rules are checked
// in order; the first match wins.
type RuleClassifier struct {
	rules []rule
}

// NewRuleClassifier builds the classifier with the built-in rule table.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{rules: defaultRules}
}

var defaultRules = []rule{
	{keywords: []string{"retread", "recap"}, category: "Tires", tier: "retread"},
	{keywords: []string{"used", "take off", "takeoff"}, category: "", tier: "used"},
	{keywords: []string{"blem"}, category: "Tires", tier: "blemished"},
	{keywords: []string{"tire", "p185", "p195", "p205", "p215", "p225", "p235", "p245", "p255", "p265", "lt2", "lt3"}, category: "Tires", tier: "new"},
	{keywords: []string{"tube"}, category: "Tubes", tier: "new"},
	{keywords: []string{"valve", "stem"}, category: "Valves", tier: "new"},
	{keywords: []string{"wheel", "rim"}, category: "Wheels", tier: "new"},
	{keywords: []string{"balance", "weight"}, category: "Wheel Weights", tier: "new"},
	{keywords: []string{"patch", "plug", "repair"}, category: "Repair Supplies", tier: "new"},
	{keywords: []string{"oil", "lube", "filter"}, category: "Service Supplies", tier: "new"},
	{keywords: []string{"brake", "rotor", "pad"}, category: "Brakes", tier: "new"},
	{keywords: []string{"battery"}, category: "Batteries", tier: "new"},
	{keywords: []string{"wiper"}, category: "Wipers", tier: "new"},
	{keywords: []string{"disposal", "recycl", "environment"}, category: "Fees", tier: ""},
	{keywords: []string{"labor", "labour", "mount", "install", "alignment", "rotation"}, category: "Services", tier: ""},
}

// Classify applies the rule table to the record's description and part
// number. A record whose own category name is populated keeps it unless a
// rule names a more specific category.
func (c *RuleClassifier) Classify(rec syncrec.Product) Result {
	haystack := strings.ToLower(rec.Description + " " + rec.PartNumber)

	result := Result{}
	if name := strings.TrimSpace(rec.CategoryName); name != "" {
		result.CategoryKey = synckey.Category(name)
	}

	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(haystack, kw) {
				if r.category != "" {
					result.CategoryKey = synckey.Category(r.category)
				}
				result.QualityTier = r.tier
				return result
			}
		}
	}
	return result
}
