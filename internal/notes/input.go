package notes

import (
	"math"
	"slices"
	"strings"

	"github.com/dmitrymomot/notekit/pkg/validator"
)

const (
	MaxTitleLength = 255
	MaxTags        = 20
	MaxTagLength   = 50

	DefaultPageSize = 10
	MaxPageSize     = 100

	msgTitleContentRequired = "Title and content are required"
)

// CreateInput holds the fields of a new note.
type CreateInput struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	IsPrivate bool     `json:"is_private"`
}

func (in CreateInput) validate() error {
	return validator.Apply(
		validator.Required("title", in.Title).WithMessage(msgTitleContentRequired),
		validator.Required("content", in.Content).WithMessage(msgTitleContentRequired),
		validator.MaxLen("title", in.Title, MaxTitleLength).
			WithMessage("Title must be at most 255 characters"),
		tagsRule(in.Tags),
	)
}

// UpdateInput is a partial update: nil fields are left untouched.
type UpdateInput struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Tags      *[]string `json:"tags"`
	IsPrivate *bool     `json:"is_private"`
}

func (in UpdateInput) validate() error {
	var rules []validator.Rule
	if in.Title != nil {
		rules = append(rules,
			validator.Required("title", *in.Title).WithMessage(msgTitleContentRequired),
			validator.MaxLen("title", *in.Title, MaxTitleLength).
				WithMessage("Title must be at most 255 characters"),
		)
	}
	if in.Content != nil {
		rules = append(rules, validator.Required("content", *in.Content).WithMessage(msgTitleContentRequired))
	}
	if in.Tags != nil {
		rules = append(rules, tagsRule(*in.Tags))
	}
	return validator.Apply(rules...)
}

func tagsRule(tags []string) validator.Rule {
	return validator.Rule{
		Check: func() bool {
			if len(tags) > MaxTags {
				return false
			}
			return !slices.ContainsFunc(tags, func(t string) bool { return len([]rune(t)) > MaxTagLength })
		},
		Error: validator.ValidationError{
			Field:   "tags",
			Message: "A note may have at most 20 tags of up to 50 characters",
		},
	}
}

// ListQuery selects a page of notes. Tags match when a note has at least one
// of them.
type ListQuery struct {
	Page   int      `query:"page"`
	Limit  int      `query:"limit"`
	Search string   `query:"search"`
	Tags   []string `query:"tags"`
}

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit < 1:
		q.Limit = DefaultPageSize
	case q.Limit > MaxPageSize:
		q.Limit = MaxPageSize
	}
	// (Page-1)*Limit must not overflow the offset.
	if maxPage := math.MaxInt32/q.Limit + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Tags = NormalizeTags(q.Tags)
	return q
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Page is one page of list results.
type Page struct {
	Notes      []Note     `json:"notes"`
	Pagination Pagination `json:"pagination"`
}

// NormalizeTags trims tags, drops empty ones and removes duplicates keeping
// the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
