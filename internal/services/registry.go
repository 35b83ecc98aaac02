package services

import (
	"contentadmin/internal/forms"
	"contentadmin/internal/models"
	"contentadmin/internal/payload"
	"contentadmin/internal/repository"
)

// Registry — сервисы всех сущностей консоли и общие справочники.
type Registry struct {
	Lookups  *LookupService
	services map[string]EntityService
	order    []string
}

// NewRegistry описывает ресурсы бэкенда и собирает для них сервисы.
func NewRegistry(client *repository.Client, builder *payload.Builder, drafts repository.DraftRepository) *Registry {
	articles := repository.NewResource[models.Article](client, "/articles", repository.WithBulkPath("/articles/bulk-delete"))
	blogs := repository.NewResource[models.Blog](client, "/blogs")
	courses := repository.NewResource[models.Course](client, "/courses")
	instructors := repository.NewResource[models.Instructor](client, "/instructors")
	categories := repository.NewResource[models.Category](client, "/categories")
	subcategories := repository.NewResource[models.SubCategory](client, "/subcategories",
		repository.WithScope("/categories/%s/subcategories"))
	sets := repository.NewResource[models.Set](client, "/sets")
	exercises := repository.NewResource[models.Exercise](client, "/exercises",
		repository.WithScope("/exercises/set/%s"))

	lookups := NewLookupService(map[string]OptionSource{
		forms.EntityCategories:  OptionsFrom(categories, func(c models.Category) string { return c.Name.First(models.LangEN) }),
		forms.EntityBlogs:       OptionsFrom(blogs, func(b models.Blog) string { return b.Title.First(models.LangEN) }),
		forms.EntityInstructors: OptionsFrom(instructors, func(i models.Instructor) string { return i.Name }),
		forms.EntitySets:        OptionsFrom(sets, func(s models.Set) string { return s.Name.First(models.LangEN) }),
	})

	r := &Registry{Lookups: lookups, services: map[string]EntityService{}}
	add := func(s EntityService) {
		r.services[s.Entity()] = s
		r.order = append(r.order, s.Entity())
	}

	add(newEntityService(forms.ArticleSchema, articles, builder, drafts, lookups,
		entityConfig{statusField: "isPublished"}))
	add(newEntityService(forms.BlogSchema, blogs, builder, drafts, lookups,
		entityConfig{statusField: "isActive"}))
	add(newEntityService(forms.CourseSchema, courses, builder, drafts, lookups,
		entityConfig{statusField: "isPublished"}))
	add(newEntityService(forms.InstructorSchema, instructors, builder, drafts, lookups,
		entityConfig{statusField: "isActive"}))
	add(newEntityService(forms.CategorySchema, categories, builder, drafts, lookups,
		entityConfig{statusField: "isActive"}))
	add(newEntityService(forms.SubcategorySchema, subcategories, builder, drafts, lookups,
		entityConfig{statusField: "isActive", parentField: "parentId", scopeRequired: true}))
	add(newEntityService(forms.SetSchema, sets, builder, drafts, lookups,
		entityConfig{statusField: "isPublished"}))
	add(newEntityService(forms.ExerciseSchema, exercises, builder, drafts, lookups,
		entityConfig{statusField: "isPublished", toggleSub: map[string]string{"isPopular": "/popular"}}))

	return r
}

func (r *Registry) Get(entity string) (EntityService, bool) {
	s, ok := r.services[entity]
	return s, ok
}

// Entities — имена сущностей в порядке регистрации.
func (r *Registry) Entities() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
