package models

import (
	"bytes"
	"encoding/json"
)

// Ref — ссылка на другую запись. Бэкенд отдаёт её либо строкой id,
// либо populated-объектом {_id, ...}; в обоих случаях хранится только id.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = Ref(obj.ID)
	return nil
}

func (r Ref) String() string { return string(r) }
