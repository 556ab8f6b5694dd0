package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/binder"
	"github.com/dgallion1/qbank/internal/extract"
	"github.com/dgallion1/qbank/internal/pipeline"
	"github.com/dgallion1/qbank/internal/report"
)

// datasetPath returns the questions file of slug, or "" for a bad slug.
func (s *Server) datasetPath(slug string) string {
	if !extract.ValidSlug(slug) {
		return ""
	}
	return filepath.Join(pipeline.DatasetDir(s.cfg.DataDir, slug), pipeline.OutputFile)
}

func (s *Server) loadBank(w http.ResponseWriter, r *http.Request) (*bank.Dataset, string, bool) {
	slug := chi.URLParam(r, "slug")
	path := s.datasetPath(slug)
	if path == "" {
		jsonError(w, "invalid slug", http.StatusBadRequest)
		return nil, "", false
	}
	ds, err := bank.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "bank not found", http.StatusNotFound)
		return nil, "", false
	}
	if err != nil {
		s.log.Error("read bank failed", "slug", slug, "error", err)
		jsonError(w, "failed to read bank", http.StatusInternalServerError)
		return nil, "", false
	}
	return ds, slug, true
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.loadBank(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := bank.Encode(w, ds); err != nil {
		s.log.Error("encode bank failed", "error", err)
	}
}

func (s *Server) handleBankReport(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.loadBank(w, r)
	if !ok {
		return
	}
	rep := report.Validate(ds, report.Options{AssetFile: s.assetFile})
	body, err := report.HTML(ds, rep)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// assetFile maps {PublicPrefix}/{slug}/images/x to {DataDir}/{slug}/images/x.
func (s *Server) assetFile(src string) string {
	rel, ok := strings.CutPrefix(src, strings.TrimSuffix(s.cfg.PublicPrefix, "/")+"/")
	if !ok {
		return filepath.Join(s.cfg.DataDir, filepath.FromSlash(src))
	}
	return filepath.Join(s.cfg.DataDir, filepath.FromSlash(rel))
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	file := chi.URLParam(r, "file")
	if !extract.ValidSlug(slug) || file != filepath.Base(file) || !binder.IsAssetName(file) {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(pipeline.DatasetDir(s.cfg.DataDir, slug), pipeline.ImageDir, file)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, path)
}
