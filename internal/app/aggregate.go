package app

import (
	"math"

	"center_catalog/internal/domain"
)

// Aggregate derives the rating summary for one center's comment list.
// Pure: same input, same output, no I/O.
//
// The average is the arithmetic mean of the marks rounded to one fractional
// digit; an empty list yields a nil average (the "no ratings" state) rather
// than zero. Marks outside 1..5 are averaged as-is: range validation happens
// at submission time, never here.
func Aggregate(comments []domain.Comment) domain.Aggregate {
	agg := domain.Aggregate{CommentCount: len(comments)}
	if len(comments) == 0 {
		return agg
	}
	sum := 0
	for _, c := range comments {
		sum += c.Mark
	}
	avg := math.Round(float64(sum)/float64(len(comments))*10) / 10
	agg.AverageRating = &avg
	return agg
}
