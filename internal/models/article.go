package models

import "time"

type TOCItem struct {
	Title  LocalizedString `json:"title"`
	Anchor string          `json:"anchor,omitempty"`
}

type FAQItem struct {
	Question LocalizedString `json:"question"`
	Answer   LocalizedString `json:"answer"`
}

type Article struct {
	Meta
	Title           LocalizedString `json:"title"`
	Excerpt         LocalizedString `json:"excerpt,omitempty"`
	Content         LocalizedString `json:"content"`
	Slug            string          `json:"slug,omitempty"`
	BlogID          Ref             `json:"blogId,omitempty"`
	CategoryID      Ref             `json:"categoryId,omitempty"`
	Author          string          `json:"author,omitempty"`
	FeaturedImages  []string        `json:"featuredImages,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	TableOfContents []TOCItem       `json:"tableOfContents,omitempty"`
	FAQ             []FAQItem       `json:"faq,omitempty"`
	ReadTime        float64         `json:"readTime,omitempty"`
	SortOrder       int             `json:"sortOrder,omitempty"`
	IsPublished     bool            `json:"isPublished"`
	IsFeatured      bool            `json:"isFeatured"`
	PublishedAt     *time.Time      `json:"publishedAt,omitempty"`
}

func (a Article) Published() bool     { return a.IsPublished }
func (a Article) Featured() bool      { return a.IsFeatured }
func (a Article) CategoryRef() string { return string(a.CategoryID) }
func (a Article) Order() int          { return a.SortOrder }
func (a Article) SearchText() string  { return joinSearch(a.Title, a.Excerpt) + a.Slug }

type Blog struct {
	Meta
	Title       LocalizedString `json:"title"`
	Description LocalizedString `json:"description,omitempty"`
	CoverImage  string          `json:"coverImage,omitempty"`
	CategoryID  Ref             `json:"categoryId,omitempty"`
	Slug        string          `json:"slug,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	SortOrder   int             `json:"sortOrder,omitempty"`
	IsActive    bool            `json:"isActive"`
	IsFeatured  bool            `json:"isFeatured"`
}

func (b Blog) Published() bool     { return b.IsActive }
func (b Blog) Featured() bool      { return b.IsFeatured }
func (b Blog) CategoryRef() string { return string(b.CategoryID) }
func (b Blog) Order() int          { return b.SortOrder }
func (b Blog) SearchText() string  { return joinSearch(b.Title, b.Description) + b.Slug }
