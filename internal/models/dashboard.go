package models

// DashboardSummary is the admin landing page payload.
type DashboardSummary struct {
	Products          int64                   `json:"products"`
	PublishedNews     int64                   `json:"published_news"`
	OpenCareers       int64                   `json:"open_careers"`
	Offices           int64                   `json:"offices"`
	ActiveSubscribers int64                   `json:"active_subscribers"`
	ContactsByStatus  map[ContactStatus]int64 `json:"contacts_by_status"`
	RecentContacts    []*ContactSubmission    `json:"recent_contacts"`
}

// SearchHit is one result of site search.
type SearchHit struct {
	Type    string  `json:"type"`
	ID      string  `json:"id"`
	Slug    string  `json:"slug"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`
}

// Searchable document types.
const (
	SearchTypeProduct = "product"
	SearchTypeNews    = "news"
	SearchTypeCareer  = "career"
)
