package recipesite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/cache"
)

// Known allrecipes endpoints
const (
	DefaultSearchBase   = "https://www.allrecipes.com/search/results/"
	DefaultRecipePrefix = "https://www.allrecipes.com/recipe/"

	// SearchResultLinks selects the anchors of search result cards
	SearchResultLinks = "#searchResultsApp article.fixed-recipe-card div.fixed-recipe-card__info a"
)

// SearchURL returns the search page identity for a query, sorted by popularity
func SearchURL(base, query string) string {
	return cache.BuildKey(base, map[string]string{
		"wt":   query,
		"sort": "p",
	})
}

// RecipeLinks returns the recipe links of a search results document, in page
// order without duplicates. Only hrefs starting with prefix are kept.
func RecipeLinks(document, selector, prefix string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: parse search results: %v", domain.ErrExtractionFailed, err)
	}
	if selector == "" {
		selector = SearchResultLinks
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || !strings.HasPrefix(href, prefix) || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})

	return links, nil
}
