package forms

import "contentadmin/internal/models"

// Имена сущностей совпадают с путями ресурсов бэкенда.
const (
	EntityArticles      = "articles"
	EntityBlogs         = "blogs"
	EntityCourses       = "courses"
	EntityInstructors   = "instructors"
	EntityCategories    = "categories"
	EntitySubcategories = "subcategories"
	EntitySets          = "sets"
	EntityExercises     = "exercises"
)

var difficulty = []string{"easy", "medium", "hard"}

var ArticleSchema = &Schema{
	Entity:    EntityArticles,
	Languages: models.LangsKAENRU,
	Fields: []Field{
		{Name: "title", Kind: KindLocalized, Required: true},
		{Name: "excerpt", Kind: KindLocalized},
		{Name: "content", Kind: KindLocalized, Required: true, HTML: true},
		{Name: "slug", Kind: KindText, SlugFrom: "title"},
		{Name: "blogId", Kind: KindRelation, Required: true, Lookup: EntityBlogs},
		{Name: "categoryId", Kind: KindRelation, Required: true, Lookup: EntityCategories},
		{Name: "author", Kind: KindText},
		{Name: "featuredImages", Kind: KindMediaList},
		{Name: "tags", Kind: KindTags},
		{Name: "tableOfContents", Kind: KindItems, Item: []Field{
			{Name: "title", Kind: KindLocalized, Required: true},
			{Name: "anchor", Kind: KindText},
		}},
		{Name: "faq", Kind: KindItems, Item: []Field{
			{Name: "question", Kind: KindLocalized, Required: true},
			{Name: "answer", Kind: KindLocalized, Required: true},
		}},
		{Name: "readTime", Kind: KindNumber},
		{Name: "sortOrder", Kind: KindNumber},
		{Name: "isPublished", Kind: KindBool},
		{Name: "isFeatured", Kind: KindBool},
	},
}

var BlogSchema = &Schema{
	Entity:    EntityBlogs,
	Languages: models.LangsKAENRU,
	Fields: []Field{
		{Name: "title", Kind: KindLocalized, Required: true},
		{Name: "description", Kind: KindLocalized},
		{Name: "coverImage", Kind: KindMedia},
		{Name: "categoryId", Kind: KindRelation, Lookup: EntityCategories},
		{Name: "slug", Kind: KindText, SlugFrom: "title"},
		{Name: "tags", Kind: KindTags},
		{Name: "sortOrder", Kind: KindNumber},
		{Name: "isActive", Kind: KindBool},
		{Name: "isFeatured", Kind: KindBool},
	},
}

var CourseSchema = &Schema{
	Entity:    EntityCourses,
	Languages: models.LangsKAFirst,
	Fields: []Field{
		{Name: "title", Kind: KindLocalized, Required: true},
		{Name: "shortDescription", Kind: KindLocalized},
		{Name: "description", Kind: KindLocalized, Required: true, HTML: true},
		{Name: "price", Kind: KindNumber, Required: true, Positive: true},
		{Name: "duration", Kind: KindNumber, Positive: true},
		{Name: "level", Kind: KindText, Options: []string{"beginner", "intermediate", "advanced"}},
		{Name: "instructorId", Kind: KindRelation, Required: true, Lookup: EntityInstructors},
		{Name: "categoryId", Kind: KindRelation, Lookup: EntityCategories},
		{Name: "thumbnail", Kind: KindMedia, Required: true},
		{Name: "promoVideo", Kind: KindMedia},
		{Name: "syllabus", Kind: KindItems, Item: []Field{
			{Name: "title", Kind: KindLocalized, Required: true},
			{Name: "description", Kind: KindLocalized},
			{Name: "duration", Kind: KindNumber},
		}},
		{Name: "announcements", Kind: KindItems, Item: []Field{
			{Name: "title", Kind: KindLocalized, Required: true},
			{Name: "content", Kind: KindLocalized},
			{Name: "isActive", Kind: KindBool},
		}},
		{Name: "tags", Kind: KindTags},
		{Name: "isPublished", Kind: KindBool},
		{Name: "isFeatured", Kind: KindBool},
	},
}

var InstructorSchema = &Schema{
	Entity:    EntityInstructors,
	Languages: models.LangsKAENRU,
	Fields: []Field{
		{Name: "name", Kind: KindText, Required: true},
		{Name: "profession", Kind: KindLocalized, Required: true},
		{Name: "bio", Kind: KindLocalized, HTML: true},
		{Name: "email", Kind: KindText},
		{Name: "profileImage", Kind: KindMedia},
		{Name: "isActive", Kind: KindBool},
	},
}

var CategorySchema = &Schema{
	Entity:    EntityCategories,
	Languages: models.LangsENRU,
	Fields: []Field{
		{Name: "name", Kind: KindLocalized, Required: true},
		{Name: "description", Kind: KindLocalized},
		{Name: "image", Kind: KindMedia},
		{Name: "sortOrder", Kind: KindNumber},
		{Name: "isActive", Kind: KindBool},
	},
}

var SubcategorySchema = &Schema{
	Entity:    EntitySubcategories,
	Languages: models.LangsENRU,
	Fields: []Field{
		{Name: "name", Kind: KindLocalized, Required: true},
		{Name: "description", Kind: KindLocalized},
		{Name: "image", Kind: KindMedia},
		{Name: "parentId", Kind: KindRelation, Required: true, Lookup: EntityCategories},
		{Name: "sortOrder", Kind: KindNumber},
		{Name: "isActive", Kind: KindBool},
	},
}

var SetSchema = &Schema{
	Entity:    EntitySets,
	Languages: models.LangsENRU,
	Fields: []Field{
		{Name: "name", Kind: KindLocalized, Required: true},
		{Name: "description", Kind: KindLocalized},
		{Name: "recommendations", Kind: KindLocalized},
		{Name: "categoryId", Kind: KindRelation, Required: true, Lookup: EntityCategories},
		{Name: "subcategoryId", Kind: KindRelation},
		{Name: "thumbnailImage", Kind: KindMedia},
		{Name: "difficulty", Kind: KindText, Options: difficulty},
		{Name: "price", Kind: KindNumber},
		{Name: "sortOrder", Kind: KindNumber},
		{Name: "isActive", Kind: KindBool},
		{Name: "isPublished", Kind: KindBool},
	},
}

var ExerciseSchema = &Schema{
	Entity:    EntityExercises,
	Languages: models.LangsENRU,
	Fields: []Field{
		{Name: "name", Kind: KindLocalized, Required: true},
		{Name: "description", Kind: KindLocalized, Required: true},
		{Name: "recommendations", Kind: KindLocalized},
		{Name: "setId", Kind: KindRelation, Required: true, Lookup: EntitySets},
		{Name: "categoryId", Kind: KindRelation, Lookup: EntityCategories},
		{Name: "subcategoryId", Kind: KindRelation},
		{Name: "thumbnailUrl", Kind: KindMedia, Required: true, Existing: "thumbnailUrl"},
		{Name: "videoUrl", Kind: KindMedia, Existing: "videoUrl"},
		{Name: "duration", Kind: KindNumber},
		{Name: "repetitions", Kind: KindNumber},
		{Name: "sets", Kind: KindNumber},
		{Name: "restTime", Kind: KindNumber},
		{Name: "difficulty", Kind: KindText, Options: difficulty},
		{Name: "sortOrder", Kind: KindNumber},
		{Name: "isActive", Kind: KindBool},
		{Name: "isPublished", Kind: KindBool},
	},
}

// Schemas — все формы консоли по имени сущности.
var Schemas = map[string]*Schema{
	EntityArticles:      ArticleSchema,
	EntityBlogs:         BlogSchema,
	EntityCourses:       CourseSchema,
	EntityInstructors:   InstructorSchema,
	EntityCategories:    CategorySchema,
	EntitySubcategories: SubcategorySchema,
	EntitySets:          SetSchema,
	EntityExercises:     ExerciseSchema,
}
