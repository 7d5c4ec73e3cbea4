package petsdk

import (
	"fmt"
)

// ──────────────────────────────────────────────
// Response Classifier — weighted emoji scoring over a closed category set
// ──────────────────────────────────────────────

// ResponseCategory is the closed set of user-response outcomes.
type ResponseCategory string

const (
	ResponsePositive ResponseCategory = "positive"
	ResponseNeutral  ResponseCategory = "neutral"
	ResponseNegative ResponseCategory = "negative"
	ResponseIgnored  ResponseCategory = "ignored"
)

// AllResponseCategories is the closed category set, in canonical order.
var AllResponseCategories = []ResponseCategory{
	ResponsePositive, ResponseNeutral, ResponseNegative, ResponseIgnored,
}

// ResponseDistribution is a weighting over response categories.
type ResponseDistribution map[ResponseCategory]float64

// Validate rejects zero or negative total mass.
func (d ResponseDistribution) Validate() error {
	sum := 0.0
	for cat, p := range d {
		if p < 0 {
			return fmt.Errorf("%w: category %q has negative mass %v", ErrDegenerateDistribution, cat, p)
		}
		sum += p
	}
	if sum <= 0 {
		return fmt.Errorf("%w: total mass %v", ErrDegenerateDistribution, sum)
	}
	return nil
}

// Mode returns the highest-probability category.
func (d ResponseDistribution) Mode() ResponseCategory {
	best := AllResponseCategories[0]
	for _, cat := range AllResponseCategories[1:] {
		if d[cat] > d[best] {
			best = cat
		}
	}
	return best
}

// UniformResponseDistribution assigns equal mass to every category.
func UniformResponseDistribution() ResponseDistribution {
	d := make(ResponseDistribution, len(AllResponseCategories))
	for _, cat := range AllResponseCategories {
		d[cat] = 1.0 / float64(len(AllResponseCategories))
	}
	return d
}

// ResponseReading is the classifier output for one observed response.
type ResponseReading struct {
	Category ResponseCategory             `json:"category"`
	Polarity float64                      `json:"polarity"` // -1..1
	Style    StyleDimension               `json:"style"`    // implied user style dimension
	Scores   map[ResponseCategory]float64 `json:"scores"`
}

type weightedToken struct {
	token  string
	weight float64
	style  StyleDimension
}

// ResponseClassifier scores observed emoji via weighted token tables.
// Affectionate tokens weigh higher than generic positives to reduce false
// positives from conventional acknowledgements.
type ResponseClassifier struct {
	patterns map[ResponseCategory][]weightedToken
}

// NewResponseClassifier creates a classifier with the built-in token tables.
func NewResponseClassifier() *ResponseClassifier {
	return &ResponseClassifier{patterns: defaultResponsePatterns()}
}

func defaultResponsePatterns() map[ResponseCategory][]weightedToken {
	return map[ResponseCategory][]weightedToken{
		ResponsePositive: {
			{token: "❤️", weight: 0.5, style: StyleNurturing},
			{token: "🥰", weight: 0.5, style: StyleNurturing},
			{token: "😍", weight: 0.5, style: StyleNurturing},
			{token: "😊", weight: 0.4, style: StyleGentle},
			{token: "😂", weight: 0.4, style: StylePlayful},
			{token: "🤣", weight: 0.4, style: StylePlayful},
			{token: "🎉", weight: 0.4, style: StylePlayful},
			{token: "👍", weight: 0.3, style: StyleSerious},
			{token: "🙂", weight: 0.3, style: StyleGentle},
		},
		ResponseNegative: {
			{token: "😡", weight: 0.5, style: StyleAggressive},
			{token: "💢", weight: 0.5, style: StyleAggressive},
			{token: "😠", weight: 0.5, style: StyleAggressive},
			{token: "👎", weight: 0.4, style: StyleAggressive},
			{token: "🙄", weight: 0.3, style: StyleSerious},
			{token: "😒", weight: 0.3, style: StyleSerious},
		},
		ResponseNeutral: {
			{token: "🤔", weight: 0.3, style: StyleSerious},
			{token: "😐", weight: 0.3, style: StyleSerious},
			{token: "👀", weight: 0.2, style: StylePlayful},
			{token: "🫤", weight: 0.3, style: StyleSerious},
		},
	}
}

// Classify maps an observed emoji sequence to a category, a signed polarity,
// and the style dimension implied by the strongest matching token. An empty
// response is the ignored category.
func (c *ResponseClassifier) Classify(response []string) ResponseReading {
	if len(response) == 0 {
		return ResponseReading{
			Category: ResponseIgnored,
			Polarity: -0.3, // being ignored stings a little
			Style:    StyleSerious,
			Scores:   map[ResponseCategory]float64{ResponseIgnored: 1},
		}
	}

	scores := map[ResponseCategory]float64{
		ResponsePositive: 0,
		ResponseNeutral:  0,
		ResponseNegative: 0,
	}
	var topStyle StyleDimension = StyleGentle
	topWeight := 0.0

	for _, tok := range response {
		for _, cat := range AllResponseCategories {
			for _, wt := range c.patterns[cat] {
				if wt.token != tok {
					continue
				}
				scores[cat] += wt.weight
				if wt.weight > topWeight {
					topWeight = wt.weight
					topStyle = wt.style
				}
			}
		}
	}

	// Pick the top category in canonical order so tied scores resolve the
	// same way every run; unscored responses fall back to neutral.
	category := ResponseNeutral
	topScore := 0.0
	for _, cat := range AllResponseCategories {
		if s := scores[cat]; s > topScore {
			topScore = s
			category = cat
		}
	}

	polarity := 0.0
	switch category {
	case ResponsePositive:
		polarity = clamp01(topScore)
	case ResponseNegative:
		polarity = -clamp01(topScore)
	}

	return ResponseReading{
		Category: category,
		Polarity: polarity,
		Style:    topStyle,
		Scores:   scores,
	}
}
