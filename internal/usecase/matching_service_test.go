package usecase

import (
	"testing"

	"github.com/recipecart/backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestNewMatchingService(t *testing.T) {
	t.Run("uses provided fuzzy threshold", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{FuzzyThreshold: 0.95})
		if svc.fuzzyThreshold != 0.95 {
			t.Errorf("fuzzyThreshold = %v, want 0.95", svc.fuzzyThreshold)
		}
	})

	t.Run("uses default threshold when zero", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{})
		if svc.fuzzyThreshold != 0.9 {
			t.Errorf("fuzzyThreshold = %v, want 0.9 (default)", svc.fuzzyThreshold)
		}
	})

	t.Run("uses default threshold when out of range", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{FuzzyThreshold: 3})
		if svc.fuzzyThreshold != 0.9 {
			t.Errorf("fuzzyThreshold = %v, want 0.9 (default)", svc.fuzzyThreshold)
		}
	})
}

func TestBestProduct(t *testing.T) {
	svc := NewMatchingService(MatchConfig{EnableFuzzyMatching: true})

	t.Run("no candidates", func(t *testing.T) {
		match, ok := svc.BestProduct("pecans", nil)
		if ok {
			t.Fatal("expected no match")
		}
		if match.QueryTerm != "pecans" || match.Matched() {
			t.Errorf("match = %+v, want unmatched pecans", match)
		}
	})

	t.Run("prefers the closer description", func(t *testing.T) {
		candidates := []domain.ProductMatch{
			{ProductID: strPtr("1"), Description: "Kroger Pecan Pie"},
			{ProductID: strPtr("2"), Description: "Kroger Pecans Halves"},
		}
		match, ok := svc.BestProduct("pecans", candidates)
		if !ok {
			t.Fatal("expected a match")
		}
		if *match.ProductID != "2" {
			t.Errorf("ProductID = %v, want 2", *match.ProductID)
		}
		if match.QueryTerm != "pecans" {
			t.Errorf("QueryTerm = %q, want pecans", match.QueryTerm)
		}
	})

	t.Run("ties keep the earlier candidate", func(t *testing.T) {
		candidates := []domain.ProductMatch{
			{ProductID: strPtr("first"), Description: "Granulated Sugar"},
			{ProductID: strPtr("second"), Description: "Granulated Sugar"},
		}
		match, _ := svc.BestProduct("sugar", candidates)
		if *match.ProductID != "first" {
			t.Errorf("ProductID = %v, want first", *match.ProductID)
		}
	})

	t.Run("unrelated candidates still resolve to the first", func(t *testing.T) {
		candidates := []domain.ProductMatch{
			{ProductID: strPtr("a"), Description: "Paper Towels"},
			{ProductID: strPtr("b"), Description: "Dish Soap"},
		}
		match, ok := svc.BestProduct("saffron", candidates)
		if !ok || *match.ProductID != "a" {
			t.Errorf("match = %+v, want first candidate", match)
		}
		if match.Score != 0 {
			t.Errorf("Score = %v, want 0", match.Score)
		}
	})
}

func TestScore(t *testing.T) {
	fuzzy := NewMatchingService(MatchConfig{EnableFuzzyMatching: true})
	exact := NewMatchingService(MatchConfig{})

	t.Run("exact match scores high", func(t *testing.T) {
		if got := exact.score("cream cheese", "", "Cream Cheese"); got < 90 {
			t.Errorf("score = %v, want >= 90", got)
		}
	})

	t.Run("fuzzy matching credits near spellings", func(t *testing.T) {
		withFuzzy := fuzzy.score("jalapeno", "", "Fresh Jalapenos")
		withoutFuzzy := exact.score("jalapeno", "", "Fresh Jalapenos")
		if withFuzzy <= withoutFuzzy {
			t.Errorf("fuzzy score %v should exceed exact score %v", withFuzzy, withoutFuzzy)
		}
	})

	t.Run("brand named in the term adds a bonus", func(t *testing.T) {
		withBrand := exact.score("philadelphia cream cheese", "Philadelphia", "Philadelphia Original Cream Cheese")
		withoutBrand := exact.score("philadelphia cream cheese", "", "Philadelphia Original Cream Cheese")
		if withBrand-withoutBrand < brandMatchBonus-0.001 && withBrand != 100 {
			t.Errorf("brand bonus = %v, want %v", withBrand-withoutBrand, brandMatchBonus)
		}
	})

	t.Run("empty inputs score zero", func(t *testing.T) {
		if got := exact.score("", "", "Milk"); got != 0 {
			t.Errorf("score = %v, want 0", got)
		}
		if got := exact.score("milk", "", "12 oz"); got != 0 {
			t.Errorf("score = %v, want 0", got)
		}
	})

	t.Run("score is capped at 100", func(t *testing.T) {
		if got := exact.score("kroger milk", "Kroger", "Kroger Milk"); got > 100 {
			t.Errorf("score = %v, want <= 100", got)
		}
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Whole Milk, 1 Gallon", []string{"whole", "milk"}},
		{"Kroger® Pecan Halves 8 oz", []string{"kroger", "pecan", "halves"}},
		{"a", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindIntersectionAndUnion(t *testing.T) {
	n, matched := findIntersection([]string{"cream", "cheese"}, []string{"cheese", "spread", "cheese"})
	if n != 1 || matched[0] != "cheese" {
		t.Errorf("findIntersection = %d %v, want 1 [cheese]", n, matched)
	}

	if got := findUnion([]string{"cream", "cheese"}, []string{"cheese", "spread"}); got != 3 {
		t.Errorf("findUnion = %d, want 3", got)
	}
}
