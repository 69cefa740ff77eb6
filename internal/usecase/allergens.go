package usecase

import (
	"strings"

	"github.com/recipecart/backend/internal/domain"
)

// Allergen keywords, matched as whole words or phrases against normalized ingredients
var (
	dairyKeywords = []string{
		"butter", "buttermilk", "cream cheese", "cheese", "cottage cheese", "cream",
		"curds", "ghee", "milk", "sour cream", "whey", "yogurt",
	}

	// plant-based products that mention a dairy word
	nonDairyPhrases = []string{
		"peanut butter", "almond butter", "cocoa butter", "apple butter",
		"almond milk", "coconut milk", "soy milk", "oat milk", "coconut cream",
		"cream of tartar",
	}

	eggKeywords = []string{"eggs", "egg"}

	peanutKeywords = []string{"peanuts", "peanut"}

	treeNutKeywords = []string{
		"almonds", "almond", "brazil nuts", "brazil nut", "cashews", "cashew",
		"chestnuts", "chestnut", "filberts", "filbert", "hazelnuts", "hazelnut",
		"hickory nuts", "hickory nut", "macadamia nuts", "macadamia nut", "pecans", "pecan",
		"pine nuts", "pine nut", "pistachios", "pistachio", "walnuts", "walnut",
	}
)

// AllergenProfiler counts how many ingredients of a recipe fall in each common allergen group
type AllergenProfiler struct{}

// NewAllergenProfiler creates a new allergen profiler
func NewAllergenProfiler() *AllergenProfiler {
	return &AllergenProfiler{}
}

// Profile counts normalized ingredients per allergen group. An ingredient may
// count in several groups ("peanut butter cups" is not dairy, "almond cream" is
// both tree nut and dairy). Other is whatever is left, never negative.
func (p *AllergenProfiler) Profile(recipe string, ingredients []string) domain.AllergenProfile {
	profile := domain.AllergenProfile{Recipe: recipe}

	total := 0
	for _, ingredient := range ingredients {
		ingredient = strings.ToLower(strings.TrimSpace(ingredient))
		if ingredient == "" {
			continue
		}
		total++

		if containsAny(ingredient, dairyKeywords) && !isNonDairy(ingredient) {
			profile.Dairy++
		}
		if containsAny(ingredient, eggKeywords) {
			profile.Egg++
		}
		if containsAny(ingredient, peanutKeywords) {
			profile.Peanut++
		}
		if containsAny(ingredient, treeNutKeywords) {
			profile.TreeNut++
		}
	}

	profile.Other = max(total-profile.Dairy-profile.Egg-profile.Peanut-profile.TreeNut, 0)
	return profile
}

// isNonDairy reports whether every dairy word in ingredient belongs to a plant-based phrase
func isNonDairy(ingredient string) bool {
	stripped := " " + ingredient + " "
	for _, phrase := range nonDairyPhrases {
		stripped = strings.ReplaceAll(stripped, " "+phrase+" ", "  ")
	}
	return !containsAny(strings.TrimSpace(stripped), dairyKeywords)
}

// containsAny reports whether text contains one of the keywords as whole words
func containsAny(text string, keywords []string) bool {
	padded := " " + strings.Join(strings.Fields(text), " ") + " "
	for _, keyword := range keywords {
		if strings.Contains(padded, " "+keyword+" ") {
			return true
		}
	}
	return false
}
