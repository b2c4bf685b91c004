package mock

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeValidation(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "The given data was invalid.", "errors": fields})
}

// decode reads a JSON object body; an empty body yields an empty map.
func decode(r *http.Request) (map[string]any, error) {
	ret := map[string]any{}
	if r.Body == nil {
		return ret, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&ret); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if ret == nil {
		ret = map[string]any{}
	}
	return ret, nil
}
