package models

// SkillSummary is the lightweight listing projection of a catalogued skill.
type SkillSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ShortDesc  string   `json:"shortDesc"`
	Tags       []string `json:"tags"`
	Author     string   `json:"author"`
	Stars      int      `json:"stars"`
	SourceRepo *string  `json:"sourceRepo,omitempty"`
}

// Skill is the full detail view of a catalogued skill.
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ShortDesc   string    `json:"shortDesc"`
	LongDesc    string    `json:"longDesc"`
	Author      string    `json:"author"`
	AuthorURL   *string   `json:"authorUrl,omitempty"`
	Stars       int       `json:"stars"`
	LastUpdated Timestamp `json:"lastUpdated"`
	Command     string    `json:"command"`
	Tags        []string  `json:"tags"`
	FileSHA     *string   `json:"fileSha,omitempty"`
	SourceRepo  *string   `json:"sourceRepo,omitempty"`
	SourcePath  *string   `json:"sourcePath,omitempty"`
	DownloadURL *string   `json:"downloadUrl,omitempty"`
	SEOTitle    *string   `json:"seoTitle,omitempty"`
	SEODesc     *string   `json:"seoDesc,omitempty"`
}

// PagedSkills is the response body for GET /v1/skills.
type PagedSkills struct {
	Skills   []SkillSummary `json:"skills"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// RandomSkills is the response body for GET /v1/skills/random.
type RandomSkills struct {
	Skills []SkillSummary `json:"skills"`
}

// SitemapEntry is one row of the sitemap enumeration.
type SitemapEntry struct {
	ID          string    `json:"id"`
	LastUpdated Timestamp `json:"lastUpdated"`
}

// SitemapPage is the response body for GET /v1/sitemap/skills/{page}.
type SitemapPage struct {
	Page    int            `json:"page"`
	Entries []SitemapEntry `json:"entries"`
}
