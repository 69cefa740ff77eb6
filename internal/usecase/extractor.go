package usecase

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/recipecart/backend/internal/domain"
)

// field is the outcome of extracting one field: a value, or absent
type field[T any] struct {
	value T
	ok    bool
}

func found[T any](value T) field[T] {
	return field[T]{value: value, ok: true}
}

func missing[T any]() field[T] {
	return field[T]{}
}

// or returns the extracted value or the fallback when absent
func (f field[T]) or(fallback T) T {
	if f.ok {
		return f.value
	}
	return fallback
}

// Extractor turns raw recipe documents into RecipeRecords
type Extractor struct {
	specs              domain.FieldSpecs
	enableDebugLogging bool
}

// NewExtractor creates an extractor for the given field specs
func NewExtractor(specs domain.FieldSpecs, enableDebugLogging bool) *Extractor {
	return &Extractor{
		specs:              specs,
		enableDebugLogging: enableDebugLogging,
	}
}

// Specs returns the field specs in use
func (e *Extractor) Specs() domain.FieldSpecs {
	return e.specs
}

// Extract builds a RecipeRecord from a document.
//
// Each field is extracted on its own; a missing or unparsable field takes its
// sentinel and never affects the others. Only a missing name is an error,
// reported as domain.ErrExtractionFailed.
func (e *Extractor) Extract(sourceURL, document string) (*domain.RecipeRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrExtractionFailed, sourceURL, err)
	}

	name := extractField(e, "name", func() field[string] { return e.name(doc) })
	if !name.ok {
		return nil, fmt.Errorf("%w: no recipe name in %s", domain.ErrExtractionFailed, sourceURL)
	}

	directions := extractField(e, "directions", func() field[[]string] { return e.directions(doc) })
	stepCount := domain.UnknownStepCount
	if directions.ok {
		stepCount = len(directions.value)
	}

	record := &domain.RecipeRecord{
		SourceURL:      sourceURL,
		Name:           name.value,
		Rating:         extractField(e, "rating", func() field[*float64] { return e.rating(doc) }).or(nil),
		RatingCount:    extractField(e, "rating count", func() field[int] { return e.ratingCount(doc) }).or(0),
		Directions:     directions.or([]string{}),
		StepCount:      stepCount,
		TopReviews:     extractField(e, "reviews", func() field[[]string] { return e.reviews(doc) }).or([]string{}),
		ReviewCount:    extractField(e, "review count", func() field[int] { return e.reviewCount(doc) }).or(0),
		Servings:       extractField(e, "servings", func() field[int] { return e.servings(doc) }).or(0),
		Ingredients:    extractField(e, "ingredients", func() field[[]string] { return e.ingredients(doc) }).or([]string{}),
		NutritionFacts: extractField(e, "nutrition", func() field[[]string] { return e.nutrition(doc) }).or([]string{}),
	}

	return record, nil
}

// extractField runs one field extraction, turning a panic inside it into an
// absent field so siblings are still extracted.
func extractField[T any](e *Extractor, label string, extract func() field[T]) (result field[T]) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EXTRACT] %s extraction panicked: %v", label, r)
			result = missing[T]()
		}
	}()

	result = extract()
	if !result.ok && e.enableDebugLogging {
		log.Printf("[EXTRACT] %s not found, using sentinel", label)
	}
	return result
}

// first returns the first node matching selector, or an empty selection
func first(doc *goquery.Document, selector string) *goquery.Selection {
	if selector == "" {
		return &goquery.Selection{}
	}
	return doc.Find(selector).First()
}

func (e *Extractor) name(doc *goquery.Document) field[string] {
	container := first(doc, e.specs.NameContainer)
	if container.Length() == 0 {
		return missing[string]()
	}
	name := strings.TrimSpace(container.Find(e.specs.NameTag).First().Text())
	if name == "" {
		return missing[string]()
	}
	return found(name)
}

// rating parses "Rating: 4.5 stars" style text into 4.5
func (e *Extractor) rating(doc *goquery.Document) field[*float64] {
	item := first(doc, e.specs.RatingContainer).Find(e.specs.RatingItem).First()
	if item.Length() == 0 {
		return missing[*float64]()
	}

	_, after, ok := strings.Cut(strings.TrimSpace(item.Text()), e.specs.RatingSeparator)
	if !ok {
		return missing[*float64]()
	}
	words := strings.Fields(after)
	if len(words) == 0 {
		return missing[*float64]()
	}

	value, err := strconv.ParseFloat(words[0], 64)
	if err != nil || value < 0 || value > 5 {
		return missing[*float64]()
	}
	return found(&value)
}

func (e *Extractor) ratingCount(doc *goquery.Document) field[int] {
	return e.count(doc, e.specs.RatingCountContainer, e.specs.RatingCountItem, e.specs.RatingCountWord)
}

func (e *Extractor) reviewCount(doc *goquery.Document) field[int] {
	return e.count(doc, e.specs.ReviewCountContainer, e.specs.ReviewCountItem, e.specs.ReviewCountWord)
}

// count reads "1,112 Ratings" style text: the first word that is not the
// label word, with thousands separators stripped.
func (e *Extractor) count(doc *goquery.Document, container, item, label string) field[int] {
	items := first(doc, container).Find(item)
	if items.Length() == 0 {
		return missing[int]()
	}

	for _, word := range strings.Fields(items.First().Text()) {
		if word == label {
			continue
		}
		return parseCount(word)
	}
	return missing[int]()
}

// parseCount strips thousands separators and parses an integer
func parseCount(text string) field[int] {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))
	if err != nil || n < 0 {
		return missing[int]()
	}
	return found(n)
}

// reviews returns the review line of every review block in the first reviews container
func (e *Extractor) reviews(doc *goquery.Document) field[[]string] {
	container := first(doc, e.specs.ReviewsContainer)
	if container.Length() == 0 {
		return missing[[]string]()
	}

	var reviews []string
	container.Find(e.specs.ReviewItem).Each(func(_ int, s *goquery.Selection) {
		if line, ok := lineAt(s.Text(), e.specs.ReviewLineIndex); ok && line != "" {
			reviews = append(reviews, line)
		}
	})

	if len(reviews) == 0 {
		return missing[[]string]()
	}
	return found(reviews)
}

// servings returns the first meta item that is a plain integer once spaces are removed
func (e *Extractor) servings(doc *goquery.Document) field[int] {
	result := missing[int]()
	doc.Find(e.specs.ServingsItem).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		compact := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s.Text())
		if n, err := strconv.Atoi(compact); err == nil && n > 0 {
			result = found(n)
			return false
		}
		return true
	})
	return result
}

func (e *Extractor) ingredients(doc *goquery.Document) field[[]string] {
	container := first(doc, e.specs.IngredientsContainer)
	if container.Length() == 0 {
		return missing[[]string]()
	}
	ingredients := texts(container.Find(e.specs.IngredientItem))
	if len(ingredients) == 0 {
		return missing[[]string]()
	}
	return found(ingredients)
}

func (e *Extractor) directions(doc *goquery.Document) field[[]string] {
	container := first(doc, e.specs.DirectionsContainer)
	if container.Length() == 0 {
		return missing[[]string]()
	}
	steps := texts(container.Find(e.specs.DirectionItem))
	if len(steps) == 0 {
		return missing[[]string]()
	}
	return found(steps)
}

// nutrition splits the facts line of the first nutrition block on the
// separator, e.g. "409 calories; protein 5.8g; fat 21.4g." becomes
// ["409 calories", "Protein 5.8g", "Fat 21.4g"].
func (e *Extractor) nutrition(doc *goquery.Document) field[[]string] {
	item := first(doc, e.specs.NutritionContainer).Find(e.specs.NutritionItem).First()
	if item.Length() == 0 {
		return missing[[]string]()
	}

	line, ok := lineAt(item.Text(), e.specs.NutritionLineIndex)
	if !ok || line == "" {
		return missing[[]string]()
	}

	parts := strings.Split(line, e.specs.NutritionSeparator)
	facts := make([]string, 0, len(parts))
	for i, part := range parts {
		fact := capitalize(strings.TrimSpace(part))
		if i == len(parts)-1 {
			fact = strings.TrimSuffix(fact, ".")
		}
		if fact != "" {
			facts = append(facts, fact)
		}
	}

	if len(facts) == 0 {
		return missing[[]string]()
	}
	return found(facts)
}

// lineAt returns the trimmed line at index of a newline-delimited block
func lineAt(block string, index int) (string, bool) {
	lines := strings.Split(block, "\n")
	if index < 0 || index >= len(lines) {
		return "", false
	}
	return strings.TrimSpace(lines[index]), true
}

// texts returns the trimmed, non-empty text of every node in the selection
func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
