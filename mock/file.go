package mock

import (
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 10 << 20

func (s *Service) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidation(w, map[string][]string{"file": {"The file field is required."}})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "failed to read file")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	record := s.tables["files"].insert(map[string]any{
		"filename":      header.Filename,
		"external_uuid": r.FormValue("external_uuid"),
		"mime_type":     mimeType,
		"size":          len(content),
	})
	s.files.Put(idOf(record), content)
	writeJSON(w, http.StatusCreated, map[string]any{"data": record})
}

func (s *Service) download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := s.tables["files"].get(id)
	content, stored := s.files.Get(id)
	if !ok || !stored {
		writeMessage(w, http.StatusNotFound, "file not found")
		return
	}
	filename, _ := record["filename"].(string)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if mimeType, _ := record["mime_type"].(string); mimeType != "" {
		w.Header().Set("Content-Type", mimeType)
	}
	_, _ = w.Write(content)
}
