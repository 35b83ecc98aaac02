package models

type SyllabusItem struct {
	Title       LocalizedString `json:"title"`
	Description LocalizedString `json:"description,omitempty"`
	Duration    float64         `json:"duration,omitempty"`
}

type Announcement struct {
	Title    LocalizedString `json:"title"`
	Content  LocalizedString `json:"content,omitempty"`
	IsActive bool            `json:"isActive"`
}

type Course struct {
	Meta
	Title            LocalizedString `json:"title"`
	ShortDescription LocalizedString `json:"shortDescription,omitempty"`
	Description      LocalizedString `json:"description"`
	Price            float64         `json:"price"`
	Duration         float64         `json:"duration,omitempty"`
	Level            string          `json:"level,omitempty"`
	InstructorID     Ref             `json:"instructorId,omitempty"`
	CategoryID       Ref             `json:"categoryId,omitempty"`
	Thumbnail        string          `json:"thumbnail,omitempty"`
	PromoVideo       string          `json:"promoVideo,omitempty"`
	Syllabus         []SyllabusItem  `json:"syllabus,omitempty"`
	Announcements    []Announcement  `json:"announcements,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	IsPublished      bool            `json:"isPublished"`
	IsFeatured       bool            `json:"isFeatured"`
}

func (c Course) Published() bool     { return c.IsPublished }
func (c Course) Featured() bool      { return c.IsFeatured }
func (c Course) CategoryRef() string { return string(c.CategoryID) }
func (c Course) Order() int          { return 0 }
func (c Course) SearchText() string  { return joinSearch(c.Title, c.ShortDescription) }

type Instructor struct {
	Meta
	Name         string          `json:"name"`
	Profession   LocalizedString `json:"profession,omitempty"`
	Bio          LocalizedString `json:"bio,omitempty"`
	Email        string          `json:"email,omitempty"`
	ProfileImage string          `json:"profileImage,omitempty"`
	IsActive     bool            `json:"isActive"`
}

func (i Instructor) Published() bool     { return i.IsActive }
func (i Instructor) Featured() bool      { return false }
func (i Instructor) CategoryRef() string { return "" }
func (i Instructor) Order() int          { return 0 }
func (i Instructor) SearchText() string {
	return joinSearch(i.Profession, LocalizedString{"name": i.Name, "email": i.Email})
}
