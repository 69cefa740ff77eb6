package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/recipecart/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Scoring weights
const (
	termCoverageWeight        = 0.60 // Share of term tokens found in the product
	descriptionCoverageWeight = 0.20 // Share of product tokens found in the term
	jaccardWeight             = 0.20
	fuzzyWeightFactor         = 0.8 // Fuzzy matches count for 80% of an exact match
	brandMatchBonus           = 10.0
	substringMatchBonus       = 10.0
)

// productNoiseWords are dropped from product descriptions before scoring
var productNoiseWords = map[string]bool{
	// Basic English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true,
	// Size/quantity units
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true,
	"gallon": true, "quart": true, "pint": true, "liter": true,
	"gram": true, "grams": true, "kg": true, "ounce": true, "ounces": true,
	"cup": true, "cups": true, "ct": true, "count": true,
	// Packaging terms
	"pack": true, "pk": true, "box": true, "bag": true, "bottle": true,
	"can": true, "carton": true, "container": true, "jar": true, "tub": true,
	// Marketing/generic terms
	"size": true, "value": true, "family": true, "each": true, "new": true,
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableFuzzyMatching bool
	// FuzzyThreshold is the minimum Jaro-Winkler similarity for two tokens to count as a fuzzy match
	FuzzyThreshold     float64
	EnableDebugLogging bool
}

// MatchingService picks the product that best fits a normalized ingredient term
type MatchingService struct {
	enableFuzzyMatching bool
	fuzzyThreshold      float64
	enableDebugLogging  bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.9
	}

	return &MatchingService{
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyThreshold:      threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// BestProduct scores every candidate against the term and returns the best one.
// Ties keep the earlier candidate, so with no signal the catalog's own order wins.
func (s *MatchingService) BestProduct(term string, candidates []domain.ProductMatch) (domain.ProductMatch, bool) {
	if len(candidates) == 0 {
		return domain.ProductMatch{QueryTerm: term}, false
	}

	best := 0
	highestScore := -1.0
	for i, candidate := range candidates {
		score := s.score(term, candidate.Brand, candidate.Description)
		if s.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q (brand %q): %.1f", term, candidate.Description, candidate.Brand, score)
		}
		if score > highestScore {
			highestScore = score
			best = i
		}
	}

	match := candidates[best]
	match.QueryTerm = term
	match.Score = highestScore
	return match, true
}

// score computes the similarity between a term and a product description.
// It is a weighted combination of:
//   - term token coverage: what share of the term tokens appear in the description
//   - description coverage: what share of the description tokens appear in the term
//   - Jaccard similarity of both token sets
//
// plus brand and substring bonuses. Returns a value in 0-100.
func (s *MatchingService) score(term, brand, description string) float64 {
	termTokens := tokenize(term)
	descriptionTokens := tokenize(description)
	if len(termTokens) == 0 || len(descriptionTokens) == 0 {
		return 0
	}

	matched := s.matchedWeight(termTokens, descriptionTokens)
	termCoverage := matched / float64(len(termTokens))

	descriptionMatched, _ := findIntersection(descriptionTokens, termTokens)
	descriptionCoverage := float64(descriptionMatched) / float64(len(descriptionTokens))

	exact, _ := findIntersection(termTokens, descriptionTokens)
	jaccard := float64(exact) / float64(findUnion(termTokens, descriptionTokens))

	score := (termCoverage*termCoverageWeight +
		descriptionCoverage*descriptionCoverageWeight +
		jaccard*jaccardWeight) * 100

	termLower := strings.ToLower(term)
	descriptionLower := strings.ToLower(description)

	if brand != "" && strings.Contains(termLower, strings.ToLower(brand)) {
		score += brandMatchBonus
	}
	if len(termLower) > 3 && strings.Contains(descriptionLower, termLower) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

// matchedWeight counts term tokens found in the description; a token with
// only a fuzzy counterpart counts for fuzzyWeightFactor.
func (s *MatchingService) matchedWeight(termTokens, descriptionTokens []string) float64 {
	present := make(map[string]bool, len(descriptionTokens))
	for _, t := range descriptionTokens {
		present[t] = true
	}

	var total float64
	for _, token := range termTokens {
		if present[token] {
			total++
			continue
		}
		if !s.enableFuzzyMatching {
			continue
		}
		for _, candidate := range descriptionTokens {
			if s.fuzzyTokenMatch(token, candidate) {
				total += fuzzyWeightFactor
				break
			}
		}
	}
	return total
}

// fuzzyTokenMatch reports whether two tokens are close enough to be the same
// word spelled differently ("jalapeno" and "jalapenos")
func (s *MatchingService) fuzzyTokenMatch(a, b string) bool {
	// Short tokens give too many false positives
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	return matchr.JaroWinkler(a, b, false) >= s.fuzzyThreshold
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, product noise, and pure numeric tokens.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 {
			continue
		}
		if productNoiseWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
