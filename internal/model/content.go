package model

import "time"

// Project is a content entry owned by the editorial side. DonationProject
// references it by id; nothing here owns donation state.
type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewsItem is a published article on the public site.
type NewsItem struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CoverImage string    `json:"cover_image,omitempty"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Event is a calendar entry with an optional cover image.
type Event struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CoverImage string    `json:"cover_image,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TransparencyDocument is a downloadable accountability file (annual report,
// audit, budget execution).
type TransparencyDocument struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	Year      int       `json:"year"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
