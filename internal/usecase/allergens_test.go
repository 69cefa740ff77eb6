package usecase

import (
	"testing"

	"github.com/recipecart/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAllergenProfiler_Profile(t *testing.T) {
	profiler := NewAllergenProfiler()

	tests := []struct {
		name        string
		ingredients []string
		want        domain.AllergenProfile
	}{
		{
			name:        "pecan pie",
			ingredients: []string{"pecans", "eggs", "butter", "light corn syrup", "white sugar"},
			want:        domain.AllergenProfile{Recipe: "pecan pie", Dairy: 1, Egg: 1, TreeNut: 1, Other: 2},
		},
		{
			name:        "plant based look-alikes",
			ingredients: []string{"peanut butter", "coconut milk", "cream of tartar"},
			want:        domain.AllergenProfile{Recipe: "plant based look-alikes", Peanut: 1, Other: 2},
		},
		{
			name:        "whole words only",
			ingredients: []string{"eggplant", "creamer", "walnut oil", "buttermilk"},
			want:        domain.AllergenProfile{Recipe: "whole words only", Dairy: 1, TreeNut: 1, Other: 2},
		},
		{
			name:        "one ingredient in several groups",
			ingredients: []string{"almond cream", "sugar"},
			want:        domain.AllergenProfile{Recipe: "one ingredient in several groups", Dairy: 1, TreeNut: 1, Other: 0},
		},
		{
			name:        "blank ingredients are ignored",
			ingredients: []string{"", "  ", "flour"},
			want:        domain.AllergenProfile{Recipe: "blank ingredients are ignored", Other: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, profiler.Profile(tt.name, tt.ingredients))
		})
	}
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("sour  cream", []string{"sour cream"}))
	assert.True(t, containsAny("pecan halves", treeNutKeywords))
	assert.False(t, containsAny("pecanless", treeNutKeywords))
}
