package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"

	"github.com/gosimple/slug"
)

// CreateReport files a report against an existing listing. The listing title
// and reporter name are copied as they are now.
func (s *AppState) CreateReport(actorID string, in model.ReportInput, now time.Time) (*model.ListingReport, error) {
	ai := s.userIndex(actorID)
	if ai < 0 {
		return nil, common.ErrUnauthorized
	}
	li := s.listingIndex(in.ListingID)
	if li < 0 {
		return nil, common.ErrNotFound.WithMessage("Listing not found.")
	}
	r := model.ListingReport{
		ID:           newID(),
		ListingID:    in.ListingID,
		ListingTitle: s.Listings[li].Title,
		ReporterID:   actorID,
		ReporterName: s.Users[ai].Username,
		Reason:       in.Reason,
		Details:      in.Details,
		CreatedAt:    now,
	}
	s.Reports = append(s.Reports, r)
	return &r, nil
}

func (s *AppState) DeleteReport(id string) bool {
	for i := range s.Reports {
		if s.Reports[i].ID == id {
			s.Reports = append(s.Reports[:i], s.Reports[i+1:]...)
			return true
		}
	}
	return false
}

// FindBlogPost looks a post up by id first, then by slug.
func (s *AppState) FindBlogPost(idOrSlug string) (model.BlogPost, bool) {
	if i := s.blogIndex(idOrSlug); i >= 0 {
		return s.BlogPosts[i], true
	}
	for _, p := range s.BlogPosts {
		if p.Slug == idOrSlug {
			return p, true
		}
	}
	return model.BlogPost{}, false
}

func (s *AppState) blogIndex(id string) int {
	for i := range s.BlogPosts {
		if s.BlogPosts[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueSlug derives a slug from want (or title) that no other post uses.
func (s *AppState) uniqueSlug(want, title, selfID string) string {
	base := slug.Make(want)
	if base == "" {
		base = slug.Make(title)
	}
	if base == "" {
		base = "post"
	}
	taken := func(candidate string) bool {
		for _, p := range s.BlogPosts {
			if p.Slug == candidate && p.ID != selfID {
				return true
			}
		}
		return false
	}
	candidate := base
	for n := 2; taken(candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}

func (s *AppState) CreateBlogPost(in model.BlogPostInput, now time.Time) (*model.BlogPost, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.ErrBadRequest.WithMessage("Title is required.")
	}
	author := in.Author
	if author == "" {
		author = s.Settings.SiteName
	}
	p := model.BlogPost{
		ID:        newID(),
		Title:     in.Title,
		Slug:      s.uniqueSlug(in.Slug, in.Title, ""),
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.BlogPosts = append(s.BlogPosts, p)
	return &p, nil
}

// UpdateBlogPost replaces the editable fields. A missing post is a no-op.
func (s *AppState) UpdateBlogPost(id string, in model.BlogPostInput, now time.Time) (*model.BlogPost, error) {
	i := s.blogIndex(id)
	if i < 0 {
		return nil, nil
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.ErrBadRequest.WithMessage("Title is required.")
	}
	p := &s.BlogPosts[i]
	p.Title = in.Title
	p.Slug = s.uniqueSlug(in.Slug, in.Title, p.ID)
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.ImageURL = in.ImageURL
	if in.Author != "" {
		p.Author = in.Author
	}
	p.UpdatedAt = now

	out := *p
	return &out, nil
}

func (s *AppState) DeleteBlogPost(id string) bool {
	i := s.blogIndex(id)
	if i < 0 {
		return false
	}
	s.BlogPosts = append(s.BlogPosts[:i], s.BlogPosts[i+1:]...)
	return true
}

// CreateRequest posts a "looking for" request. actorID may be empty for guests.
func (s *AppState) CreateRequest(actorID string, in model.PropertyRequestInput, now time.Time) (*model.PropertyRequest, error) {
	if !in.Location.Valid() {
		return nil, common.ErrInvalidLocation
	}
	r := model.PropertyRequest{
		ID:              newID(),
		Name:            in.Name,
		Phone:           in.Phone,
		Category:        in.Category,
		TransactionType: in.TransactionType,
		Location:        in.Location,
		Budget:          in.Budget,
		Description:     in.Description,
		CreatedAt:       now,
	}
	if s.userIndex(actorID) >= 0 {
		r.UserID = actorID
	}
	s.Requests = append(s.Requests, r)
	return &r, nil
}

func (s *AppState) DeleteRequest(id string) bool {
	for i := range s.Requests {
		if s.Requests[i].ID == id {
			s.Requests = append(s.Requests[:i], s.Requests[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateSettings replaces the settings singleton.
func (s *AppState) UpdateSettings(in model.AppSettings) (model.AppSettings, error) {
	if in.PinCost < 0 {
		return model.AppSettings{}, common.ErrBadRequest.WithMessage("Pin cost must not be negative.")
	}
	s.Settings = in
	return s.Settings, nil
}
