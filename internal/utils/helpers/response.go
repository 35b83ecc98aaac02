package helpers

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Data   interface{}       `json:"data,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{Data: data})
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	write(w, status, Response{Error: errMsg})
}

// ValidationError — ответ 422 с ошибками по полям формы.
func ValidationError(w http.ResponseWriter, errMsg string, fields map[string]string) {
	write(w, http.StatusUnprocessableEntity, Response{Error: errMsg, Fields: fields})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		return
	}
}
