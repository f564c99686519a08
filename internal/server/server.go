// Package server exposes the codec over HTTP.
//
// Routes:
//
//	POST /encode          multipart "image" + "secret_text"; stores the result
//	POST /decode          multipart "image"
//	POST /capacity        multipart "image"
//	GET  /download/{name} encoded image as an attachment
//	GET  /healthz
//
// Every response except a download is encoded according to the Accept
// header (JSON by default).
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zoobzio/stego"
	"github.com/zoobzio/stego/internal/artifact"
)

// Messages returned to clients.
const (
	msgNoImage      = "No image file provided"
	msgNoFile       = "No file selected"
	msgNoText       = "No secret text provided"
	msgBadType      = "Invalid file type. Please use PNG, JPG, BMP, GIF, TIFF or WebP images."
	msgBadForm      = "Invalid form data"
	msgTooLarge     = "File too large. Maximum upload size is %d MB."
	msgTooManyPix   = "Image too large. Maximum is %d pixels."
	msgSaveFailed   = "Error saving encoded image"
	msgBadName      = "Invalid filename"
	msgBadPath      = "Invalid file path"
	msgNotFound     = "File not found"
	msgUnreadable   = "Could not read image: %v"
	msgInternal     = "Internal server error"
	downloadRoute   = "/download/"
	formImageField  = "image"
	formSecretField = "secret_text"
)

// allowedExtensions are the upload file types the service accepts.
var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "bmp": true,
	"gif": true, "tif": true, "tiff": true, "webp": true,
}

// Server handles HTTP requests against one processor and artifact store.
type Server struct {
	proc      *stego.Processor
	store     *artifact.Store
	logger    *slog.Logger
	maxBytes  int64
	maxPixels int64
}

// New returns a Server. Uploads larger than maxBytes, or images whose header
// declares more than maxPixels pixels, are rejected before decoding.
func New(proc *stego.Processor, store *artifact.Store, logger *slog.Logger, maxBytes, maxPixels int64) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{proc: proc, store: store, logger: logger, maxBytes: maxBytes, maxPixels: maxPixels}
}

// Handler returns the routed handler wrapped in the middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /encode", s.handleEncode)
	mux.HandleFunc("POST /decode", s.handleDecode)
	mux.HandleFunc("POST /capacity", s.handleCapacity)
	mux.HandleFunc("GET "+downloadRoute+"{name}", s.handleDownload)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return chain(mux,
		recoverer(s.logger),
		logging(s.logger),
		noCache,
		compress,
	)
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text := r.FormValue(formSecretField)
	if text == "" {
		s.fail(w, r, http.StatusBadRequest, msgNoText)
		return
	}

	var out bytes.Buffer
	if err := s.proc.Hide(r.Context(), bytes.NewReader(data), &out, text); err != nil {
		s.write(w, r, http.StatusBadRequest, messageResponse{Message: stego.HideResult(err).Message})
		return
	}

	name, err := s.store.Put(out.Bytes(), s.proc.Format().Extension())
	if err != nil {
		s.logger.Error("store artifact", "error", err)
		s.fail(w, r, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	s.write(w, r, http.StatusOK, encodeResponse{
		Success:     true,
		Message:     stego.MessageHidden,
		DownloadURL: downloadRoute + name,
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text, err := s.proc.Reveal(r.Context(), bytes.NewReader(data))
	res := stego.RevealResult(text, err)

	resp := decodeResponse{Success: res.Success, Message: res.Message}
	if res.Success {
		resp.ExtractedText = &res.Text
	}
	s.write(w, r, http.StatusOK, resp)
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	width, height, format, err := stego.Probe(bytes.NewReader(data))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Sprintf(msgUnreadable, err))
		return
	}

	s.write(w, r, http.StatusOK, capacityResponse{
		Success:  true,
		Capacity: s.proc.Capacity(r.Context(), bytes.NewReader(data)),
		Width:    width,
		Height:   height,
		Format:   format,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	f, info, err := s.store.Open(name)
	switch {
	case errors.Is(err, artifact.ErrInvalidName):
		s.fail(w, r, http.StatusBadRequest, msgBadName)
		return
	case errors.Is(err, artifact.ErrOutsideRoot):
		s.fail(w, r, http.StatusBadRequest, msgBadPath)
		return
	case errors.Is(err, artifact.ErrNotFound):
		s.fail(w, r, http.StatusNotFound, msgNotFound)
		return
	case err != nil:
		s.logger.Error("open artifact", "name", name, "error", err)
		s.fail(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	defer f.Close()

	base := info.Name()
	if ct := mime.TypeByExtension(filepath.Ext(base)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": base}))
	http.ServeContent(w, r, base, info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, healthResponse{Status: "ok", Formats: stego.Formats()})
}

// readUpload validates the multipart upload and returns the image bytes.
// On failure it writes the response and returns false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf(msgTooLarge, s.maxBytes>>20))
			return nil, false
		}
		s.fail(w, r, http.StatusBadRequest, msgBadForm)
		return nil, false
	}

	file, header, err := r.FormFile(formImageField)
	if err != nil {
		// A file input submitted with nothing chosen arrives as a plain value.
		if _, empty := r.MultipartForm.Value[formImageField]; empty {
			s.fail(w, r, http.StatusBadRequest, msgNoFile)
			return nil, false
		}
		s.fail(w, r, http.StatusBadRequest, msgNoImage)
		return nil, false
	}
	defer file.Close()

	if !allowed(header) {
		s.fail(w, r, http.StatusBadRequest, msgBadType)
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, msgBadForm)
		return nil, false
	}

	// A small file can declare huge dimensions. Unreadable headers are left
	// to the handlers, which report them in their own terms.
	if width, height, _, err := stego.Probe(bytes.NewReader(data)); err == nil && int64(width)*int64(height) > s.maxPixels {
		s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf(msgTooManyPix, s.maxPixels))
		return nil, false
	}
	return data, true
}

func allowed(h *multipart.FileHeader) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(h.Filename), "."))
	return allowedExtensions[ext]
}
