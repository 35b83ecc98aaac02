package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"contentadmin/internal/logger"
	"contentadmin/internal/utils/helpers"
)

// ActivityHandler — журнал действий консоли по JSON-логам сервиса.
// Читает текущий файл (только за сегодня) и ротированные lumberjack-файлы
// app-<timestamp>.log[.gz], где день берётся из имени.
type ActivityHandler struct {
	LogDir    string
	Retention int
	now       func() time.Time
}

func NewActivityHandler(logDir string) *ActivityHandler {
	if logDir == "" {
		logDir = "logs"
	}
	return &ActivityHandler{LogDir: logDir, Retention: 14, now: time.Now}
}

// ActivityEntry — одно действие: отправка формы, удаление, переключение статуса.
type ActivityEntry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Entity    string `json:"entity,omitempty"`
	Op        string `json:"op,omitempty"`
	ID        string `json:"id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Days
// @Summary      Дни с журналом
// @Description  Даты (YYYY-MM-DD), за которые есть файлы логов
// @Tags         activity
// @Produce      json
// @Success      200 {object} helpers.Response
// @Router       /api/admin/activity/days [get]
func (h *ActivityHandler) Days(w http.ResponseWriter, r *http.Request) {
	today := h.now().Local()
	days := []string{}
	for i := 0; i < h.Retention; i++ {
		d := today.AddDate(0, 0, -i).Format("2006-01-02")
		if files, err := h.filesForDay(d); err == nil && len(files) > 0 {
			days = append(days, d)
		}
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, map[string]any{"days": days})
}

// List
// @Summary      Журнал за день
// @Description  Действия с сущностями за день, с фильтрами по сущности, операции, уровню и подстроке
// @Tags         activity
// @Produce      json
// @Param        day     query  string true  "YYYY-MM-DD"
// @Param        entity  query  string false "Сущность"
// @Param        op      query  string false "CSV операций: create,update,delete,toggle,draft,list,load"
// @Param        level   query  string false "CSV уровней: debug,info,warn,error"
// @Param        q       query  string false "Поиск по подстроке"
// @Param        limit   query  int    false "Лимит (по умолч. 200, макс. 1000)"
// @Param        cursor  query  int    false "Номер строки для пагинации"
// @Success      200 {object} helpers.Response
// @Failure      400 {object} helpers.Response
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/activity [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day := q.Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "bad day")
		return
	}

	entity := strings.TrimSpace(q.Get("entity"))
	ops := toSet(q.Get("op"), strings.ToLower)
	levels := toSet(q.Get("level"), strings.ToUpper)
	needle := strings.ToLower(strings.TrimSpace(q.Get("q")))
	limit := clampAtoi(q.Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(q.Get("cursor"), 0, 0, 10_000_000)

	lineNo := 0
	items := []ActivityEntry{}
	err := h.forEachLine(day, func(raw []byte) bool {
		lineNo++
		if lineNo <= cursor {
			return true
		}
		if needle != "" && !strings.Contains(strings.ToLower(string(raw)), needle) {
			return true
		}
		var e ActivityEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return true // не JSON (консольный формат)
		}
		if e.Entity == "" {
			return true // не действие с сущностью
		}
		if entity != "" && e.Entity != entity {
			return true
		}
		if len(ops) > 0 && !ops[strings.ToLower(e.Op)] {
			return true
		}
		if len(levels) > 0 && !levels[strings.ToUpper(e.Level)] {
			return true
		}
		items = append(items, e)
		return len(items) < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "day not found")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]any{
		"day":        day,
		"items":      items,
		"nextCursor": lineNo,
	})
}

// Stats
// @Summary      Сводка действий за день
// @Description  Количество действий по сущностям и операциям
// @Tags         activity
// @Produce      json
// @Param        day query string true "YYYY-MM-DD"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/activity/stats [get]
func (h *ActivityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "bad day")
		return
	}

	stats := map[string]map[string]int{}
	errorsByEntity := map[string]int{}
	err := h.forEachLine(day, func(raw []byte) bool {
		var e ActivityEntry
		if json.Unmarshal(raw, &e) != nil || e.Entity == "" {
			return true
		}
		if stats[e.Entity] == nil {
			stats[e.Entity] = map[string]int{}
		}
		stats[e.Entity][e.Op]++
		if lvl := strings.ToUpper(e.Level); lvl == "ERROR" || lvl == "WARN" {
			errorsByEntity[e.Entity]++
		}
		return true
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "day not found")
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]any{"day": day, "stats": stats, "problems": errorsByEntity})
}

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (h *ActivityHandler) filesForDay(day string) ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}
	today := h.now().Local().Format("2006-01-02")

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == logger.LogFile && day == today {
			files = append(files, filepath.Join(h.LogDir, name))
			continue
		}
		// lumberjack: app-2025-09-11T12-34-56.123.log[.gz]
		if strings.HasPrefix(name, "app-"+day) &&
			(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".gz")) {
			files = append(files, filepath.Join(h.LogDir, name))
		}
	}
	// ротированные файлы по времени, текущий в конце
	sort.Slice(files, func(i, j int) bool {
		ci := filepath.Base(files[i]) == logger.LogFile
		cj := filepath.Base(files[j]) == logger.LogFile
		if ci != cj {
			return cj
		}
		return files[i] < files[j]
	})
	return files, nil
}

func (h *ActivityHandler) forEachLine(day string, handle func([]byte) bool) error {
	files, err := h.filesForDay(day)
	if err != nil || len(files) == 0 {
		return os.ErrNotExist
	}
	for _, path := range files {
		if !readLines(path, handle) {
			break
		}
	}
	return nil
}

// readLines возвращает false, если handle попросил остановиться.
func readLines(path string, handle func([]byte) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gz.Close()
		reader = gz
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false
		}
	}
	return true
}

func toSet(csv string, norm func(string) string) map[string]bool {
	if csv == "" {
		return nil
	}
	m := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			m[norm(p)] = true
		}
	}
	return m
}

func clampAtoi(s string, def, lo, hi int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
