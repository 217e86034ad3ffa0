package forms

import (
	"time"

	"chronicle/internal/models"
)

// pubDateFormats are accepted publication time layouts; the short form
// matches what datetime-local inputs submit.
var pubDateFormats = []string{time.RFC3339, "2006-01-02T15:04"}

// PostForm is the bound payload of the post create/edit form.
type PostForm struct {
	Title       string `json:"title" validate:"required,max=256"`
	Text        string `json:"text" validate:"required"`
	PubDate     string `json:"pub_date" validate:"required"`
	CategoryID  *uint  `json:"category_id"`
	LocationID  *uint  `json:"location_id"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsPublished *bool  `json:"is_published"`
}

// PostValues is the normalized result of a successful validation.
type PostValues struct {
	Title       string
	Text        string
	PubDate     time.Time
	CategoryID  *uint
	LocationID  *uint
	ImageURL    string
	IsPublished bool
}

// Validate checks field-level constraints and returns either normalized
// values or the per-field error messages. Model-level checks (category
// and location existence) belong to the service layer.
func (f *PostForm) Validate() (*PostValues, Errors) {
	errs := Errors{}
	checkStruct(f, errs)

	var pubDate time.Time
	if f.PubDate != "" {
		parsed := false
		for _, layout := range pubDateFormats {
			if t, err := time.Parse(layout, f.PubDate); err == nil {
				pubDate = t
				parsed = true
				break
			}
		}
		if !parsed {
			errs.Add("pub_date", "Enter a valid date/time.")
		}
	}

	if errs.Any() {
		return nil, errs
	}

	isPublished := true
	if f.IsPublished != nil {
		isPublished = *f.IsPublished
	}

	return &PostValues{
		Title:       f.Title,
		Text:        f.Text,
		PubDate:     pubDate,
		CategoryID:  f.CategoryID,
		LocationID:  f.LocationID,
		ImageURL:    f.ImageURL,
		IsPublished: isPublished,
	}, nil
}

// Apply copies the validated values onto the post. Author and identity
// fields are assigned by the caller.
func (v *PostValues) Apply(post *models.Post) {
	post.Title = v.Title
	post.Text = v.Text
	post.PubDate = v.PubDate
	post.CategoryID = v.CategoryID
	post.LocationID = v.LocationID
	post.ImageURL = v.ImageURL
	post.IsPublished = v.IsPublished
	// Drop stale preloaded associations so they are reloaded consistently.
	post.Category = nil
	post.Location = nil
}

// PostFormFromModel pre-populates the edit form from an existing post.
func PostFormFromModel(p *models.Post) *PostForm {
	published := p.IsPublished
	return &PostForm{
		Title:       p.Title,
		Text:        p.Text,
		PubDate:     p.PubDate.Format(time.RFC3339),
		CategoryID:  p.CategoryID,
		LocationID:  p.LocationID,
		ImageURL:    p.ImageURL,
		IsPublished: &published,
	}
}
