package forms

import "chronicle/internal/models"

// CommentForm is the bound payload of the comment create/edit form.
// Only a non-empty text is required.
type CommentForm struct {
	Text string `json:"text" validate:"required,max=10000"`
}

// CommentValues is the normalized result of a successful validation.
type CommentValues struct {
	Text string
}

// Validate checks the single text constraint.
func (f *CommentForm) Validate() (*CommentValues, Errors) {
	errs := Errors{}
	checkStruct(f, errs)
	if errs.Any() {
		return nil, errs
	}
	return &CommentValues{Text: f.Text}, nil
}

// Apply copies the validated values onto the comment. Post linkage and
// author are assigned by the caller.
func (v *CommentValues) Apply(comment *models.Comment) {
	comment.Text = v.Text
}

// CommentFormFromModel pre-populates the edit form from an existing comment.
func CommentFormFromModel(c *models.Comment) *CommentForm {
	return &CommentForm{Text: c.Text}
}
