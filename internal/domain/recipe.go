package domain

import (
	"fmt"
	"strconv"
)

// Sentinel labels substituted when a field cannot be extracted
const (
	NoRating         = "No rating"
	NoReviews        = "No reviews"
	NoNutrition      = "No nutrition information"
	NoDirections     = "No directions"
	UnknownSteps     = "unknown"
	UnknownStepCount = -1
)

// RecipeRecord is the structured form of one recipe document.
// Every field is extracted independently; absent fields hold their zero value
// and render through the *Label helpers as sentinels.
type RecipeRecord struct {
	SourceURL      string   `json:"sourceUrl"`
	Name           string   `json:"name"`
	Rating         *float64 `json:"ratingOutOf5"`
	RatingCount    int      `json:"ratingCount"`
	Directions     []string `json:"directions"`
	StepCount      int      `json:"stepCount"`
	TopReviews     []string `json:"topReviews"`
	ReviewCount    int      `json:"reviewCount"`
	Servings       int      `json:"servings"`
	Ingredients    []string `json:"ingredients"`
	NutritionFacts []string `json:"nutritionFacts"`
}

// RatingLabel returns the rating as text or NoRating
func (r *RecipeRecord) RatingLabel() string {
	if r.Rating == nil {
		return NoRating
	}
	return strconv.FormatFloat(*r.Rating, 'f', -1, 64)
}

// ReviewsLabel returns the reviews joined for display or NoReviews
func (r *RecipeRecord) ReviewsLabel() string {
	if len(r.TopReviews) == 0 {
		return NoReviews
	}
	return fmt.Sprintf("%q", r.TopReviews)
}

// NutritionLabel returns the nutrition facts for display or NoNutrition
func (r *RecipeRecord) NutritionLabel() string {
	if len(r.NutritionFacts) == 0 {
		return NoNutrition
	}
	return fmt.Sprintf("%q", r.NutritionFacts)
}

// DirectionsLabel returns the directions for display or NoDirections
func (r *RecipeRecord) DirectionsLabel() string {
	if len(r.Directions) == 0 {
		return NoDirections
	}
	return fmt.Sprintf("%q", r.Directions)
}

// StepCountLabel returns the number of steps or UnknownSteps
func (r *RecipeRecord) StepCountLabel() string {
	if r.StepCount == UnknownStepCount {
		return UnknownSteps
	}
	return strconv.Itoa(r.StepCount)
}

// Info is the one-line summary shown in recipe listings
func (r *RecipeRecord) Info() string {
	return r.Name + ": " + r.RatingLabel()
}

// StoredRecipe is a row returned by the record storage collaborator
type StoredRecipe struct {
	Query       string `json:"query"`
	SourceURL   string `json:"sourceUrl"`
	Name        string `json:"name"`
	Rating      string `json:"rating"`
	RatingCount int    `json:"ratingCount"`
	Servings    int    `json:"servings"`
	Ingredients string `json:"ingredients"`
	Nutrition   string `json:"nutrition"`
	TopReviews  string `json:"topReviews"`
	ReviewCount int    `json:"reviewCount"`
}

// AllergenProfile counts ingredients of one recipe per common allergen group
type AllergenProfile struct {
	Recipe  string `json:"recipe"`
	Dairy   int    `json:"dairy"`
	Egg     int    `json:"egg"`
	Peanut  int    `json:"peanut"`
	TreeNut int    `json:"treeNut"`
	Other   int    `json:"other"`
}
