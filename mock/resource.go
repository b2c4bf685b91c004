package mock

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Service) list(t *table, fixed map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := t.list(r.URL.Query(), fixed)
		writeJSON(w, http.StatusOK, map[string]any{
			"data":         result.records,
			"total":        result.total,
			"per_page":     result.perPage,
			"current_page": result.current,
		})
	}
}

func (s *Service) create(t *table, fixed map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := decode(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		delete(values, "id")
		for key, value := range fixed {
			values[key] = value
		}
		if missing := t.missing(values); missing != nil {
			writeValidation(w, missing)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"data": t.insert(values)})
	}
}

func (s *Service) get(t *table, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, ok := t.get(chi.URLParam(r, param))
		if !ok {
			writeMessage(w, http.StatusNotFound, "record not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": record})
	}
}

func (s *Service) update(t *table, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := decode(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		record, ok := t.update(chi.URLParam(r, param), values)
		if !ok {
			writeMessage(w, http.StatusNotFound, "record not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": record})
	}
}

func (s *Service) delete(t *table, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !t.delete(chi.URLParam(r, param)) {
			writeMessage(w, http.StatusNotFound, "record not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statuses counts the records of resource per status.
func (s *Service) statuses(resource string) http.HandlerFunc {
	t := s.tables[resource]
	return func(w http.ResponseWriter, _ *http.Request) {
		counts := map[string]int{}
		var order []string
		t.records.Range(func(_ string, record map[string]any) bool {
			status, _ := record[t.statusField].(string)
			if status == "" {
				return true
			}
			if _, ok := counts[status]; !ok {
				order = append(order, status)
			}
			counts[status]++
			return true
		})
		data := make([]map[string]any, 0, len(order))
		for _, status := range order {
			data = append(data, map[string]any{"status": status, "count": counts[status]})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": data})
	}
}

func (s *Service) chatsBySubject(w http.ResponseWriter, r *http.Request) {
	fixed := map[string]string{"subject_uuid": chi.URLParam(r, "subject")}
	s.list(s.tables["chats"], fixed)(w, r)
}

func (s *Service) blockUser(block bool) http.HandlerFunc {
	users := s.tables["users"]
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		record, ok := users.update(id, map[string]any{"blocked": block, "active": !block})
		if !ok {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		if email, _ := record["email"].(string); email != "" {
			s.setAccountBlocked(email, block)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
