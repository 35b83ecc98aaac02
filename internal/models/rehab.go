package models

type Category struct {
	Meta
	Name          LocalizedString `json:"name"`
	Description   LocalizedString `json:"description,omitempty"`
	Image         string          `json:"image,omitempty"`
	Subcategories []SubCategory   `json:"subcategories,omitempty"`
	SortOrder     int             `json:"sortOrder,omitempty"`
	IsActive      bool            `json:"isActive"`
}

func (c Category) Published() bool     { return c.IsActive }
func (c Category) Featured() bool      { return false }
func (c Category) CategoryRef() string { return "" }
func (c Category) Order() int          { return c.SortOrder }
func (c Category) SearchText() string  { return joinSearch(c.Name, c.Description) }

type SubCategory struct {
	Meta
	Name        LocalizedString `json:"name"`
	Description LocalizedString `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	ParentID    Ref             `json:"parentId,omitempty"`
	SortOrder   int             `json:"sortOrder,omitempty"`
	IsActive    bool            `json:"isActive"`
}

func (s SubCategory) Published() bool     { return s.IsActive }
func (s SubCategory) Featured() bool      { return false }
func (s SubCategory) CategoryRef() string { return string(s.ParentID) }
func (s SubCategory) Order() int          { return s.SortOrder }
func (s SubCategory) SearchText() string  { return joinSearch(s.Name, s.Description) }

// Set — комплекс реабилитационных упражнений.
type Set struct {
	Meta
	Name            LocalizedString `json:"name"`
	Description     LocalizedString `json:"description,omitempty"`
	Recommendations LocalizedString `json:"recommendations,omitempty"`
	CategoryID      Ref             `json:"categoryId"`
	SubcategoryID   Ref             `json:"subcategoryId,omitempty"`
	ThumbnailImage  string          `json:"thumbnailImage,omitempty"`
	Difficulty      string          `json:"difficulty,omitempty"`
	Price           float64         `json:"price,omitempty"`
	SortOrder       int             `json:"sortOrder,omitempty"`
	IsActive        bool            `json:"isActive"`
	IsPublished     bool            `json:"isPublished"`
}

func (s Set) Published() bool     { return s.IsPublished }
func (s Set) Featured() bool      { return false }
func (s Set) CategoryRef() string { return string(s.CategoryID) }
func (s Set) Order() int          { return s.SortOrder }
func (s Set) SearchText() string  { return joinSearch(s.Name, s.Description) }

type Exercise struct {
	Meta
	Name            LocalizedString `json:"name"`
	Description     LocalizedString `json:"description"`
	Recommendations LocalizedString `json:"recommendations,omitempty"`
	SetID           Ref             `json:"setId"`
	CategoryID      Ref             `json:"categoryId,omitempty"`
	SubcategoryID   Ref             `json:"subcategoryId,omitempty"`
	ThumbnailURL    string          `json:"thumbnailUrl,omitempty"`
	VideoURL        string          `json:"videoUrl,omitempty"`
	Duration        float64         `json:"duration,omitempty"`
	Repetitions     float64         `json:"repetitions,omitempty"`
	Sets            float64         `json:"sets,omitempty"`
	RestTime        float64         `json:"restTime,omitempty"`
	Difficulty      string          `json:"difficulty,omitempty"`
	SortOrder       int             `json:"sortOrder,omitempty"`
	IsActive        bool            `json:"isActive"`
	IsPublished     bool            `json:"isPublished"`
	IsPopular       bool            `json:"isPopular"`
}

func (e Exercise) Published() bool     { return e.IsPublished }
func (e Exercise) Featured() bool      { return e.IsPopular }
func (e Exercise) CategoryRef() string { return string(e.CategoryID) }
func (e Exercise) Order() int          { return e.SortOrder }
func (e Exercise) SearchText() string  { return joinSearch(e.Name, e.Description) }
