package interview

import "fmt"

// Category selects which topic-specific question document the interview
// draws from. Each category maps to a fixed document id in the question
// collection.
type Category string

const (
	CategoryMovies Category = "movies"
	CategoryFood   Category = "food"
	CategoryTravel Category = "travel"
)

// DefaultCategory is used when no category was chosen.
const DefaultCategory = CategoryMovies

var categoryDocIDs = map[Category]string{
	CategoryMovies: "moviesAndTV_tiered_questions.json",
	CategoryFood:   "foodAndDining_tiered_questions.json",
	CategoryTravel: "travel_tiered_questions.json",
}

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{CategoryMovies, CategoryFood, CategoryTravel}
}

// ParseCategory resolves a user-supplied name to a Category.
func ParseCategory(name string) (Category, error) {
	switch Category(name) {
	case CategoryMovies, CategoryFood, CategoryTravel:
		return Category(name), nil
	}
	return "", fmt.Errorf("unknown category %q (expected movies, food or travel)", name)
}

// DocID returns the question-collection document id for the category.
func (c Category) DocID() string {
	if id, ok := categoryDocIDs[c]; ok {
		return id
	}
	return categoryDocIDs[DefaultCategory]
}

// DisplayName returns a capitalized name for UI use.
func (c Category) DisplayName() string {
	switch c {
	case CategoryMovies:
		return "Movies & TV"
	case CategoryFood:
		return "Food & Dining"
	case CategoryTravel:
		return "Travel"
	default:
		return string(c)
	}
}
