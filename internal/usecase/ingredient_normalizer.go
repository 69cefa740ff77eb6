package usecase

import (
	"log"
	"strings"
	"unicode"
)

// ingredientStopWords are dropped when a token matches them exactly.
// Units come in plural and singular form; quantities and descriptive
// adjectives that never help a product search are listed too.
var ingredientStopWords = map[string]bool{
	// Volume
	"teaspoons": true, "teaspoon": true, "tsp": true,
	"tablespoons": true, "tablespoon": true, "tbsp": true,
	"fluid": true, "ounces": true, "ounce": true, "oz": true,
	"gills": true, "gill": true, "cups": true, "cup": true,
	"pints": true, "pint": true, "quarts": true, "quart": true,
	"gallons": true, "gallon": true, "ml": true, "liters": true, "liter": true,
	"pinch": true, "pinches": true, "dash": true, "dashes": true,

	// Weight
	"pounds": true, "pound": true, "lbs": true, "lb": true,
	"grams": true, "gram": true, "g": true, "kg": true,

	// Packaging and shape
	"packages": true, "package": true, "cans": true, "can": true,
	"container": true, "containers": true, "jars": true, "jar": true,
	"inches": true, "inch": true, "crumbs": true, "crumb": true,
	"cubes": true, "cube": true, "slices": true, "slice": true,
	"cloves": true, "clove": true,

	// Temperature and state
	"warm": true, "cold": true, "hot": true, "chilled": true, "refrigerated": true,

	// Size descriptors
	"large": true, "medium": true, "small": true,

	// Connectives
	"of": true, "or": true, "and": true, "to": true, "a": true, "an": true,
}

// ingredientPunctuation is stripped from both ends of every token
const ingredientPunctuation = "()[]{}.,;:!?\"'*-"

// NormalizerConfig holds configuration for the ingredient normalizer
type NormalizerConfig struct {
	ExtraStopWords     []string
	EnableDebugLogging bool
}

// IngredientNormalizer reduces free-form ingredient phrases to canonical search terms
type IngredientNormalizer struct {
	stopWords          map[string]bool
	enableDebugLogging bool
}

// NewIngredientNormalizer creates a new normalizer with the default stop words
// plus any configured extras
func NewIngredientNormalizer(config NormalizerConfig) *IngredientNormalizer {
	stopWords := make(map[string]bool, len(ingredientStopWords)+len(config.ExtraStopWords))
	for word := range ingredientStopWords {
		stopWords[word] = true
	}
	for _, word := range config.ExtraStopWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			stopWords[word] = true
		}
	}

	return &IngredientNormalizer{
		stopWords:          stopWords,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Normalize converts raw ingredient phrases into a de-duplicated list of
// canonical terms, keeping the order of first occurrence.
func (n *IngredientNormalizer) Normalize(phrases []string) []string {
	return dedupe(n.NormalizeEach(phrases))
}

// NormalizeEach converts every phrase without de-duplicating, so result[i]
// corresponds to phrases[i]. A phrase with no surviving tokens yields "".
func (n *IngredientNormalizer) NormalizeEach(phrases []string) []string {
	terms := make([]string, len(phrases))
	for i, phrase := range phrases {
		terms[i] = n.NormalizePhrase(phrase)
	}
	return terms
}

// NormalizePhrase converts a single phrase.
//
// Everything after the first comma is dropped, then each whitespace token is
// lower-cased and stripped of surrounding punctuation. Tokens equal to a stop
// word or made only of quantity characters are dropped; stop words never
// match inside a longer token, so "pecans" survives the stop word "can".
func (n *IngredientNormalizer) NormalizePhrase(phrase string) string {
	head, _, _ := strings.Cut(phrase, ",")

	var kept []string
	for _, word := range strings.Fields(head) {
		token := strings.Trim(strings.ToLower(word), ingredientPunctuation)
		if token == "" || n.stopWords[token] || isQuantity(token) {
			continue
		}
		kept = append(kept, token)
	}

	term := strings.TrimSpace(strings.Join(kept, " "))

	if n.enableDebugLogging {
		log.Printf("[NORMALIZE] Input: %q -> Output: %q", phrase, term)
	}

	return term
}

// isQuantity reports whether a token is purely numeric: digits, decimals,
// fractions such as "1/2", ranges such as "2-3" and vulgar fractions such as "½".
func isQuantity(token string) bool {
	hasNumber := false
	for _, r := range token {
		switch {
		case unicode.IsNumber(r):
			hasNumber = true
		case r == '/' || r == '.' || r == '-':
		default:
			return false
		}
	}
	return hasNumber
}

// dedupe removes repeated strings keeping the first occurrence
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}
