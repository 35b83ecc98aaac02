package forms

import (
	"testing"

	"contentadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Entity:    "test",
		Languages: models.LangsENRU,
		Fields: []Field{
			{Name: "title", Kind: KindLocalized, Required: true},
			{Name: "categoryId", Kind: KindRelation, Required: true, Lookup: EntityCategories},
			{Name: "price", Kind: KindNumber, Required: true, Positive: true},
			{Name: "image", Kind: KindMedia, Required: true},
			{Name: "tags", Kind: KindTags},
		},
	}
}

func TestValidate_OnlyMissingRequiredRelationFails(t *testing.T) {
	st := NewState(testSchema())
	require.NoError(t, st.Merge(map[string]any{
		"title":      map[string]any{"en": "Hello", "ru": ""},
		"categoryId": "",
		"price":      "10",
		"image":      "https://cdn.example.com/a.png",
	}))

	errs := Validate(st, nil)
	invalid := Invalid(errs)

	assert.True(t, invalid["categoryId"])
	assert.False(t, invalid["title"])
	assert.Len(t, errs, 1)
}

func TestValidate_RequiredLanguageBlankAfterTrim(t *testing.T) {
	st := NewState(testSchema())
	require.NoError(t, st.SetLocalized("title", models.LangEN, "   "))
	require.NoError(t, st.SetLocalized("title", models.LangRU, "Привет"))

	errs := Validate(st, nil)
	require.Contains(t, errs, "title")
	assert.Contains(t, errs["title"].Error(), "en")
}

func TestValidate_Idempotent(t *testing.T) {
	st := NewState(testSchema())
	first := Messages(Validate(st, nil))
	second := Messages(Validate(st, nil))
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestValidate_Numbers(t *testing.T) {
	cases := map[string]bool{
		"":     true,
		"abc":  true,
		"0":    true,
		"-5":   true,
		"12.5": false,
	}
	for raw, wantInvalid := range cases {
		st := NewState(testSchema())
		require.NoError(t, st.SetText("price", raw))
		assert.Equal(t, wantInvalid, Invalid(Validate(st, nil))["price"], "price=%q", raw)
	}
}

func TestValidate_MediaAnyRepresentation(t *testing.T) {
	refs := []models.MediaReference{
		models.MediaFromURL("https://cdn.example.com/x.jpg"),
		models.MediaFromFile(&models.File{Name: "x.jpg", Data: []byte{1}}),
		models.MediaFromDataURL("data:image/png;base64,AQ=="),
	}
	for _, ref := range refs {
		st := NewState(testSchema())
		require.NoError(t, st.SetMedia("image", ref))
		assert.False(t, Invalid(Validate(st, nil))["image"], ref.Kind().String())
	}

	st := NewState(testSchema())
	assert.True(t, Invalid(Validate(st, nil))["image"])
}

func TestValidate_Lookups(t *testing.T) {
	st := NewState(testSchema())
	require.NoError(t, st.SetText("categoryId", "c-404"))

	lookups := Lookups{}
	lookups.Add(EntityCategories, "c-1", "c-2")
	assert.True(t, Invalid(Validate(st, lookups))["categoryId"])

	require.NoError(t, st.SetText("categoryId", "c-2"))
	assert.False(t, Invalid(Validate(st, lookups))["categoryId"])

	// справочник не загружен — проверка связи пропускается
	require.NoError(t, st.SetText("categoryId", "c-404"))
	assert.False(t, Invalid(Validate(st, nil))["categoryId"])
}

func TestValidate_RelationListAndItems(t *testing.T) {
	schema := &Schema{
		Entity:    "test",
		Languages: models.LangsKAENRU,
		Fields: []Field{
			{Name: "blogIds", Kind: KindRelationList, Required: true},
			{Name: "faq", Kind: KindItems, Item: []Field{
				{Name: "question", Kind: KindLocalized, Required: true},
			}},
		},
	}
	st := NewState(schema)
	require.NoError(t, st.Merge(map[string]any{"blogIds": []any{" ", ""}}))
	idx, err := st.AddItem("faq")
	require.NoError(t, err)

	errs := Validate(st, nil)
	assert.Contains(t, errs, "blogIds")
	assert.Contains(t, errs, "faq.0.question")

	require.NoError(t, st.SetItemLocalized("faq", idx, "question", models.LangEN, "Why?"))
	require.NoError(t, st.SetRelations("blogIds", []string{"b1"}))
	assert.Empty(t, Validate(st, nil))
}

func TestValidate_Options(t *testing.T) {
	st := NewState(SetSchema)
	require.NoError(t, st.SetText("difficulty", "extreme"))
	assert.True(t, Invalid(Validate(st, nil))["difficulty"])

	require.NoError(t, st.SetText("difficulty", "hard"))
	assert.False(t, Invalid(Validate(st, nil))["difficulty"])
}

func TestFirstMessage_SchemaOrder(t *testing.T) {
	st := NewState(testSchema())
	errs := Validate(st, nil)
	assert.Contains(t, FirstMessage(st.Schema(), errs), "title")
}
