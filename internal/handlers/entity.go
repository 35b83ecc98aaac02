package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"contentadmin/internal/forms"
	"contentadmin/internal/listview"
	"contentadmin/internal/logger"
	"contentadmin/internal/models"
	"contentadmin/internal/payload"
	"contentadmin/internal/repository"
	"contentadmin/internal/services"
	"contentadmin/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type EntityHandler struct {
	reg       *services.Registry
	maxUpload int64
}

func NewEntityHandler(reg *services.Registry, maxUploadMB int64) *EntityHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	return &EntityHandler{reg: reg, maxUpload: maxUploadMB << 20}
}

// FormResponse — значения формы для заполнения редактора.
type FormResponse struct {
	Entity    string         `json:"entity"`
	ID        string         `json:"id,omitempty"`
	Languages []string       `json:"languages"`
	Values    map[string]any `json:"values"`
	Error     string         `json:"error,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// ValidateResponse — результат проверки формы без отправки.
type ValidateResponse struct {
	Valid    bool              `json:"valid"`
	Fields   map[string]string `json:"fields,omitempty"`
	Encoding string            `json:"encoding,omitempty"`
}

type toggleRequest struct {
	Value bool `json:"value"`
}

type bulkDeleteRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm"`
}

// BulkDeleteResponse — какие записи удалены, а какие нет и почему.
type BulkDeleteResponse struct {
	Deleted   []string          `json:"deleted"`
	Failed    map[string]string `json:"failed,omitempty"`
	Cancelled bool              `json:"cancelled,omitempty"`
}

func (h *EntityHandler) service(w http.ResponseWriter, r *http.Request) (services.EntityService, bool) {
	name := mux.Vars(r)["entity"]
	svc, ok := h.reg.Get(name)
	if !ok {
		helpers.Error(w, http.StatusNotFound, "unknown entity")
		return nil, false
	}
	return svc, true
}

// List
// @Summary      Список записей
// @Description  Страница записей с фильтрами. total — число записей на сервере, items — отфильтрованная и отсортированная страница.
// @Tags         entities
// @Produce      json
// @Param        entity      path   string true  "articles|blogs|courses|instructors|categories|subcategories|sets|exercises"
// @Param        status      query  string false "all|published|draft|featured"
// @Param        search      query  string false "Поиск"
// @Param        categoryId  query  string false "Категория (для subcategories — родитель)"
// @Param        dateFrom    query  string false "YYYY-MM-DD"
// @Param        dateTo      query  string false "YYYY-MM-DD"
// @Param        page        query  int    false "Страница (с 1)"
// @Param        limit       query  int    false "Лимит (до 100)"
// @Success      200 {object} helpers.Response{data=services.ListResult}
// @Failure      400 {object} helpers.Response
// @Failure      502 {object} helpers.Response
// @Router       /api/admin/{entity} [get]
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	h.list(w, r, svc, r.URL.Query().Get("scope"))
}

// ListBySet
// @Summary      Упражнения комплекса
// @Tags         entities
// @Produce      json
// @Param        setId  path  string true "ID комплекса"
// @Success      200 {object} helpers.Response{data=services.ListResult}
// @Router       /api/admin/exercises/by-set/{setId} [get]
func (h *EntityHandler) ListBySet(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.reg.Get(forms.EntityExercises)
	if !ok {
		helpers.Error(w, http.StatusNotFound, "unknown entity")
		return
	}
	h.list(w, r, svc, mux.Vars(r)["setId"])
}

func (h *EntityHandler) list(w http.ResponseWriter, r *http.Request, svc services.EntityService, scope string) {
	f, err := parseFilter(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := svc.List(r.Context(), scope, f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}

// NewForm
// @Summary      Пустая форма
// @Description  Значения по умолчанию для формы создания
// @Tags         entities
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Success      200 {object} helpers.Response{data=FormResponse}
// @Router       /api/admin/{entity}/new [get]
func (h *EntityHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	helpers.JSON(w, http.StatusOK, formResponse(svc, "", svc.NewState()))
}

// EditForm
// @Summary      Форма редактирования
// @Description  Запись бэкенда, приведённая к значениям формы
// @Tags         entities
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Param        id      path  string true "ID записи"
// @Success      200 {object} helpers.Response{data=FormResponse}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/{entity}/{id}/form [get]
func (h *EntityHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	st, err := svc.LoadForEdit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, formResponse(svc, id, st))
}

// Draft
// @Summary      Черновик формы
// @Description  Последняя версия формы, которую не удалось отправить
// @Tags         entities
// @Produce      json
// @Param        entity  path   string true  "Сущность"
// @Param        id      query  string false "ID записи (пусто — форма создания)"
// @Success      200 {object} helpers.Response{data=FormResponse}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/{entity}/draft [get]
func (h *EntityHandler) Draft(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	st, d, err := svc.Draft(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := formResponse(svc, id, st)
	resp.Error = d.Error
	resp.UpdatedAt = &d.UpdatedAt
	helpers.JSON(w, http.StatusOK, resp)
}

// Drafts
// @Summary      Неотправленные формы
// @Description  Черновики сущности от свежих к старым; recordId пустой у формы создания
// @Tags         entities
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Success      200 {object} helpers.Response{data=[]repository.Draft}
// @Router       /api/admin/{entity}/drafts [get]
func (h *EntityHandler) Drafts(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	list, err := svc.Drafts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Create
// @Summary      Создать запись
// @Description  Принимает JSON или multipart/form-data (структурные поля — JSON-строками, файлы — частями)
// @Tags         entities
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Success      201 {object} helpers.Response
// @Failure      400 {object} helpers.Response
// @Failure      422 {object} helpers.Response "ошибки по полям"
// @Failure      502 {object} helpers.Response
// @Router       /api/admin/{entity} [post]
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

// Update
// @Summary      Обновить запись
// @Tags         entities
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Param        id      path  string true "ID записи"
// @Success      200 {object} helpers.Response
// @Failure      422 {object} helpers.Response "ошибки по полям"
// @Failure      502 {object} helpers.Response
// @Router       /api/admin/{entity}/{id} [patch]
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, mux.Vars(r)["id"])
}

func (h *EntityHandler) submit(w http.ResponseWriter, r *http.Request, id string) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	st, err := h.decodeForm(w, r, svc)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("ошибка разбора формы", zap.String("entity", svc.Entity()), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := svc.Submit(r.Context(), id, st)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	helpers.JSON(w, status, out)
}

// Validate
// @Summary      Проверить форму
// @Description  Проверка без отправки на бэкенд; также сообщает, каким способом будет отправлено тело
// @Tags         entities
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Success      200 {object} helpers.Response{data=ValidateResponse}
// @Router       /api/admin/{entity}/validate [post]
func (h *EntityHandler) Validate(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	st, err := h.decodeForm(w, r, svc)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	errs := svc.Validate(r.Context(), st)
	resp := ValidateResponse{Valid: len(errs) == 0, Fields: forms.Messages(errs)}
	if resp.Valid {
		resp.Encoding = payload.ChooseEncoding(st).String()
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// SetStatus
// @Summary      Переключить статус
// @Description  Публикация/активность записи; в ответе — версия записи с сервера
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Param        id      path  string true "ID записи"
// @Param        body    body  toggleRequest true "Новое значение"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/{entity}/{id}/status [patch]
func (h *EntityHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	h.toggle(w, r, svc, svc.StatusField())
}

// SetPopular
// @Summary      Популярное упражнение
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        id    path  string true "ID упражнения"
// @Param        body  body  toggleRequest true "Новое значение"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/exercises/{id}/popular [patch]
func (h *EntityHandler) SetPopular(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.reg.Get(forms.EntityExercises)
	if !ok {
		helpers.Error(w, http.StatusNotFound, "unknown entity")
		return
	}
	h.toggle(w, r, svc, "isPopular")
}

func (h *EntityHandler) toggle(w http.ResponseWriter, r *http.Request, svc services.EntityService, field string) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := svc.Toggle(r.Context(), mux.Vars(r)["id"], field, req.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, out)
}

// Delete
// @Summary      Удалить запись
// @Description  Без confirm=true запрос к бэкенду не отправляется
// @Tags         entities
// @Produce      json
// @Param        entity   path   string true  "Сущность"
// @Param        id       path   string true  "ID записи"
// @Param        confirm  query  bool   false "Подтверждение"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/{entity}/{id} [delete]
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := svc.Delete(r.Context(), id, listview.Always(confirm)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// BulkDelete
// @Summary      Удалить несколько записей
// @Description  Результат по каждому id: удалённые и неудачные с причиной
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        entity  path  string true "Сущность"
// @Param        body    body  bulkDeleteRequest true "ids и подтверждение"
// @Success      200 {object} helpers.Response{data=BulkDeleteResponse}
// @Failure      207 {object} helpers.Response{data=BulkDeleteResponse} "часть записей не удалена"
// @Router       /api/admin/{entity}/bulk-delete [post]
func (h *EntityHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.IDs) == 0 {
		helpers.Error(w, http.StatusBadRequest, "ids is empty")
		return
	}

	res, err := svc.BulkDelete(r.Context(), req.IDs, listview.Always(req.Confirm))
	if errors.Is(err, listview.ErrNotConfirmed) {
		helpers.JSON(w, http.StatusOK, BulkDeleteResponse{Deleted: []string{}, Cancelled: true})
		return
	}
	resp := BulkDeleteResponse{Deleted: res.Deleted, Failed: res.FailedMessages()}
	if resp.Deleted == nil {
		resp.Deleted = []string{}
	}
	switch {
	case err == nil:
		helpers.JSON(w, http.StatusOK, resp)
	case len(res.Deleted) > 0:
		helpers.JSON(w, http.StatusMultiStatus, resp)
	default:
		writeServiceError(w, r, err)
	}
}

// ---------- helpers ----------

func formResponse(svc services.EntityService, id string, st *forms.State) FormResponse {
	return FormResponse{
		Entity:    svc.Entity(),
		ID:        id,
		Languages: svc.Schema().Languages.Codes,
		Values:    st.Values(),
	}
}

func parseFilter(r *http.Request) (models.FilterState, error) {
	q := r.URL.Query()
	f := models.NewFilterState()
	f.Status = models.ParseStatus(q.Get("status"))
	f.Search = q.Get("search")
	f.CategoryID = q.Get("categoryId")

	for name, dst := range map[string]**time.Time{"dateFrom": &f.DateFrom, "dateTo": &f.DateTo} {
		if v := q.Get(name); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return f, fmt.Errorf("%s: ожидается YYYY-MM-DD", name)
			}
			*dst = &t
		}
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("page: %w", err)
		}
		f.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("limit: %w", err)
		}
		f.Limit = n
	}
	return f.Clamp(), nil
}

// decodeForm читает тело запроса в состояние формы. JSON-объект сливается
// целиком; в multipart структурные поля приходят JSON-строками, файлы — частями,
// уже загруженные URL — под ключом existing*.
func (h *EntityHandler) decodeForm(w http.ResponseWriter, r *http.Request, svc services.EntityService) (*forms.State, error) {
	st := svc.NewState()
	schema := svc.Schema()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		patch := make(map[string]any, len(body))
		for k, v := range body {
			if _, ok := schema.Field(k); ok {
				patch[k] = v
			}
		}
		if err := st.Merge(patch); err != nil {
			return nil, err
		}
		return st, nil
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	form := r.MultipartForm
	patch := map[string]any{}
	for _, f := range schema.Fields {
		if vals := form.Value[f.Name]; len(vals) > 0 {
			patch[f.Name] = vals[0]
		}
		if f.Kind == forms.KindMediaList {
			if vals := form.Value[f.ExistingKey()]; len(vals) > 0 {
				patch[f.Name] = vals[0]
			}
		}
		if f.Kind == forms.KindMedia && patch[f.Name] == nil {
			if vals := form.Value[f.ExistingKey()]; len(vals) > 0 {
				patch[f.Name] = vals[0]
			}
		}
	}
	if err := st.Merge(patch); err != nil {
		return nil, err
	}

	for _, f := range schema.Fields {
		if f.Kind != forms.KindMedia && f.Kind != forms.KindMediaList {
			continue
		}
		for _, fh := range form.File[f.Name] {
			file, err := readPart(fh)
			if err != nil {
				return nil, err
			}
			m := models.MediaFromFile(file)
			if f.Kind == forms.KindMedia {
				err = st.SetMedia(f.Name, m)
			} else {
				err = st.AddMedia(f.Name, m)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return st, nil
}

func readPart(fh *multipart.FileHeader) (*models.File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("файл %s: %w", fh.Filename, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("файл %s: %w", fh.Filename, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &models.File{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

// writeServiceError переводит ошибку конвейера в HTTP-ответ.
// 4xx бэкенда отдаются как есть, прочие ошибки бэкенда — 502.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.WithCtx(r.Context())

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		helpers.ValidationError(w, verr.Error(), forms.Messages(verr.Fields))
		return
	case errors.Is(err, listview.ErrNotConfirmed):
		helpers.JSON(w, http.StatusOK, map[string]any{"cancelled": true})
		return
	case errors.Is(err, services.ErrScopeRequired),
		errors.Is(err, services.ErrUnknownToggle),
		errors.Is(err, forms.ErrUnknownField),
		errors.Is(err, models.ErrBadDataURL):
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, repository.ErrDraftNotFound):
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, context.Canceled):
		log.Info("запрос отменён клиентом", zap.String("path", r.URL.Path))
		return
	}

	var apiErr *repository.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status >= 400 && status < 500 {
			helpers.Error(w, status, apiErr.Message)
			return
		}
		log.Error("ошибка бэкенда", zap.Int("status", status), zap.Error(err))
		helpers.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	log.Error("ошибка обработки запроса", zap.Error(err))
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = http.StatusText(http.StatusBadGateway)
	}
	helpers.Error(w, http.StatusBadGateway, msg)
}
