package domain

import "strings"

// Intent is a closed-set label describing the purchasing purpose of a question
type Intent string

const (
	IntentInfoSeeking           Intent = "정보 탐색"
	IntentPurchaseConsideration Intent = "구매 고려"
	IntentFeatureInquiry        Intent = "기능 문의"
	IntentSmallTalk             Intent = "단순 대화"
	IntentOther                 Intent = "기타"
	IntentAnalysisFailed        Intent = "분석 실패"
)

// ClassifiableIntents are the labels a classification provider may return
var ClassifiableIntents = []Intent{
	IntentInfoSeeking,
	IntentPurchaseConsideration,
	IntentFeatureInquiry,
	IntentSmallTalk,
	IntentOther,
}

var allIntents = []Intent{
	IntentInfoSeeking,
	IntentPurchaseConsideration,
	IntentFeatureInquiry,
	IntentSmallTalk,
	IntentOther,
	IntentAnalysisFailed,
}

var intentAliases = map[string]Intent{
	"infoseeking":           IntentInfoSeeking,
	"purchaseconsideration": IntentPurchaseConsideration,
	"featureinquiry":        IntentFeatureInquiry,
	"smalltalk":             IntentSmallTalk,
	"other":                 IntentOther,
	"analysisfailed":        IntentAnalysisFailed,
}

// ParseIntent maps a provider label onto the closed intent set.
// Surrounding quotes, whitespace and trailing punctuation are ignored.
func ParseIntent(label string) (Intent, bool) {
	s := strings.TrimSpace(label)
	s = strings.Trim(s, "\"'`.。 \t\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	compact := strings.ReplaceAll(s, " ", "")
	for _, intent := range allIntents {
		if compact == strings.ReplaceAll(string(intent), " ", "") {
			return intent, true
		}
	}

	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	if intent, ok := intentAliases[key]; ok {
		return intent, true
	}
	return "", false
}

// Valid reports whether the intent is exactly one of the closed-set labels
func (i Intent) Valid() bool {
	for _, intent := range allIntents {
		if i == intent {
			return true
		}
	}
	return false
}
