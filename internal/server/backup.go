package server

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/lazypower/keepsharp/internal/backup"
	"github.com/lazypower/keepsharp/internal/model"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := backup.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	bundle, err := s.engine.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := backup.Write(&buf, bundle, format); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(bundle)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// importFormat picks the backup format from ?format=, then Content-Type.
func importFormat(r *http.Request) (backup.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return backup.ParseFormat(f)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case backup.YAML.ContentType(), "application/x-yaml", "text/yaml":
		return backup.YAML, nil
	case backup.XLSX.ContentType():
		return backup.XLSX, nil
	default:
		return backup.JSON, nil
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseImportMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := importFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	decoded, err := backup.Read(http.MaxBytesReader(w, r.Body, s.importLimit), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.engine.Import(r.Context(), decoded, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
