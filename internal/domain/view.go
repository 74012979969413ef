package domain

import "strconv"

// Aggregate is derived from a center's comment list and never stored.
// A nil AverageRating means the center has no ratings yet.
type Aggregate struct {
	AverageRating *float64 `json:"average_rating"`
	CommentCount  int      `json:"comment_count"`
}

// RatingLabel renders the average with one fractional digit, or the
// no-ratings sentinel.
func (a Aggregate) RatingLabel() string {
	if a.AverageRating == nil {
		return "No ratings"
	}
	return strconv.FormatFloat(*a.AverageRating, 'f', 1, 64)
}

// RatingBand buckets the average for display styling.
func (a Aggregate) RatingBand() string {
	if a.AverageRating == nil {
		return ""
	}
	switch r := *a.AverageRating; {
	case r <= 2.6:
		return "low"
	case r <= 3.6:
		return "medium-low"
	case r <= 4:
		return "medium-high"
	default:
		return "high"
	}
}

// CenterView is the render-ready projection of a center joined with its
// cached comments and their aggregate. Always rebuilt from its inputs,
// never mutated in place.
type CenterView struct {
	Center      Center    `json:"center"`
	Comments    []Comment `json:"comments"`
	Aggregate   Aggregate `json:"aggregate"`
	RatingLabel string    `json:"rating_label"`
	RatingBand  string    `json:"rating_band,omitempty"`
}
