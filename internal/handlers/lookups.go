package handlers

import (
	"net/http"
	"strings"

	"contentadmin/internal/services"
	"contentadmin/internal/utils/helpers"
)

type LookupHandler struct {
	svc *services.LookupService
}

func NewLookupHandler(svc *services.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

// Get
// @Summary      Справочники для форм
// @Description  Категории, блоги, инструкторы и комплексы для выпадающих списков; загружаются параллельно
// @Tags         lookups
// @Produce      json
// @Param        kinds  query  string false "CSV: categories,blogs,instructors,sets (по умолчанию все)"
// @Success      200 {object} helpers.Response{data=map[string][]services.Option}
// @Failure      400 {object} helpers.Response
// @Failure      502 {object} helpers.Response
// @Router       /api/admin/lookups [get]
func (h *LookupHandler) Get(w http.ResponseWriter, r *http.Request) {
	var kinds []string
	for _, k := range strings.Split(r.URL.Query().Get("kinds"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	for _, k := range kinds {
		if !contains(h.svc.Kinds(), k) {
			helpers.Error(w, http.StatusBadRequest, "unknown lookup: "+k)
			return
		}
	}

	out, err := h.svc.Load(r.Context(), kinds...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, out)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
