package forms

import (
	"strconv"
	"strings"

	"musicapp/models"
)

type ReviewForm struct {
	Rating  Number `form:"rating" json:"rating" validate:"required,oneof=1 2 3 4 5"`
	Comment string `form:"comment" json:"comment" validate:"required"`
}

func NewReviewForm(review models.Review) ReviewForm {
	return ReviewForm{
		Rating:  Number(strconv.Itoa(review.Rating)),
		Comment: review.Comment,
	}
}

// Bind validates the form and, when valid, copies it into review. A rating outside
// MinRating..MaxRating never reaches the review.
func (f *ReviewForm) Bind(review *models.Review) Errors {
	f.Rating = Number(strings.TrimSpace(string(f.Rating)))
	f.Comment = strings.TrimSpace(f.Comment)

	errs := check(f)
	if errs.Any() {
		return errs
	}

	rating, err := strconv.Atoi(string(f.Rating))
	if err != nil || rating < models.MinRating || rating > models.MaxRating {
		errs.Add("rating", InvalidChoice(string(f.Rating)))
		return errs
	}

	review.Rating = rating
	review.Comment = f.Comment
	return errs
}
