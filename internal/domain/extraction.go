package domain

// FieldSpecs locates each recipe field inside a document.
// Selectors are goquery (CSS) selectors; line indexes pick which line of a
// multi-line block holds the value.
type FieldSpecs struct {
	NameContainer string `mapstructure:"name_container"`
	NameTag       string `mapstructure:"name_tag"`

	RatingContainer string `mapstructure:"rating_container"`
	RatingItem      string `mapstructure:"rating_item"`
	RatingSeparator string `mapstructure:"rating_separator"`

	RatingCountContainer string `mapstructure:"rating_count_container"`
	RatingCountItem      string `mapstructure:"rating_count_item"`
	RatingCountWord      string `mapstructure:"rating_count_word"`

	ReviewsContainer string `mapstructure:"reviews_container"`
	ReviewItem       string `mapstructure:"review_item"`
	ReviewLineIndex  int    `mapstructure:"review_line_index"`

	ReviewCountContainer string `mapstructure:"review_count_container"`
	ReviewCountItem      string `mapstructure:"review_count_item"`
	ReviewCountWord      string `mapstructure:"review_count_word"`

	ServingsItem string `mapstructure:"servings_item"`

	IngredientsContainer string `mapstructure:"ingredients_container"`
	IngredientItem       string `mapstructure:"ingredient_item"`

	DirectionsContainer string `mapstructure:"directions_container"`
	DirectionItem       string `mapstructure:"direction_item"`

	NutritionContainer string `mapstructure:"nutrition_container"`
	NutritionItem      string `mapstructure:"nutrition_item"`
	NutritionLineIndex int    `mapstructure:"nutrition_line_index"`
	NutritionSeparator string `mapstructure:"nutrition_separator"`
}

// Line indexes of the known allrecipes document shape
const (
	// DefaultReviewLineIndex is the line of a review block holding the review text
	DefaultReviewLineIndex = 3
	// DefaultNutritionLineIndex is the line of the nutrition block holding the facts
	DefaultNutritionLineIndex = 1
)

// DefaultFieldSpecs returns the field specs of the known allrecipes recipe page
func DefaultFieldSpecs() FieldSpecs {
	return FieldSpecs{
		NameContainer: ".headline-wrapper",
		NameTag:       "h1",

		RatingContainer: ".recipe-review-container",
		RatingItem:      "span.review-star-text",
		RatingSeparator: ":",

		RatingCountContainer: ".ugc-ratings",
		RatingCountItem:      "span.ugc-ratings-item",
		RatingCountWord:      "Ratings",

		ReviewsContainer: ".recipes-reviews-container",
		ReviewItem:       "span.recipe-review-body--truncated",
		ReviewLineIndex:  DefaultReviewLineIndex,

		ReviewCountContainer: ".ugc-ratings",
		ReviewCountItem:      "a.ugc-reviews-link",
		ReviewCountWord:      "Reviews",

		ServingsItem: ".recipe-meta-item-body",

		IngredientsContainer: ".recipe-shopper-wrapper",
		IngredientItem:       "span.ingredients-item-name",

		DirectionsContainer: ".instructions-section",
		DirectionItem:       ".instructions-section-item .section-body",

		NutritionContainer: ".nutrition-section",
		NutritionItem:      "div.section-body",
		NutritionLineIndex: DefaultNutritionLineIndex,
		NutritionSeparator: ";",
	}
}
