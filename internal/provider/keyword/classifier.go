package keyword

import (
	"context"
	"strings"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

type rule struct {
	intent   domain.Intent
	keywords []string
}

// Classifier is a deterministic keyword-based intent classifier.
// Rules are evaluated in order; text matching none of them is information seeking.
type Classifier struct {
	rules []rule
}

// NewClassifier creates a keyword classifier with the default rule set
func NewClassifier() *Classifier {
	return &Classifier{
		rules: []rule{
			{intent: domain.IntentPurchaseConsideration, keywords: []string{"얼마", "가격", "구매", "할인", "price", "cost", "how much", "buy", "purchase"}},
			{intent: domain.IntentFeatureInquiry, keywords: []string{"어떻게", "방법", "기능", "how to", "how do", "how can", "feature"}},
			{intent: domain.IntentSmallTalk, keywords: []string{"안녕", "고마워", "감사", "hello", "thanks", "thank you"}},
		},
	}
}

// Classify returns the label of the first matching rule
func (c *Classifier) Classify(_ context.Context, text string) (string, error) {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return string(r.intent), nil
			}
		}
	}
	return string(domain.IntentInfoSeeking), nil
}
