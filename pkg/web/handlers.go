package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/menta2k/skin-analyzer/internal/metrics"
	"github.com/menta2k/skin-analyzer/internal/utils"
	"github.com/menta2k/skin-analyzer/pkg/form"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

// elementIDs exposes the form element IDs to the template
type elementIDs struct {
	Input, Preview, Analyze, Result, Disease, Confidence, Error string
}

var ids = elementIDs{
	Input:      form.InputID,
	Preview:    form.PreviewID,
	Analyze:    form.AnalyzeID,
	Result:     form.ResultID,
	Disease:    form.DiseaseID,
	Confidence: form.ConfidenceID,
	Error:      form.ErrorID,
}

type pageData struct {
	IDs        elementIDs
	Page       *form.Page
	PreviewURL template.URL
}

func (s *Server) render(c *gin.Context, page *form.Page) {
	data := pageData{IDs: ids, Page: page}
	if page.Preview.Visible {
		// Preview URLs are data: URLs built by the previewer
		data.PreviewURL = template.URL(page.Preview.Text)
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) handleIndex(c *gin.Context) {
	s.render(c, form.NewPage())
}

func (s *Server) handlePreview(c *gin.Context) {
	page := form.NewPage()
	ctrl := s.controller(c, page)

	file, err := s.readFile(c)
	if err != nil {
		ctrl.RenderError(err.Error())
		s.render(c, page)
		return
	}

	ctrl.SelectFile(file)
	s.render(c, page)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	page := form.NewPage()
	ctrl := s.controller(c, page)

	file, err := s.readFile(c)
	if err != nil {
		metrics.RecordSubmission(err)
		ctrl.RenderError(err.Error())
		s.render(c, page)
		return
	}

	ctrl.SelectFile(file)
	_, err = ctrl.Analyze(c.Request.Context())
	metrics.RecordSubmission(err)
	s.render(c, page)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ready",
		"backend":     s.backend,
		"api_version": APIVersion,
	})
}

func (s *Server) controller(c *gin.Context, page *form.Page) *form.Controller {
	logger := s.logger.With().Str("request_id", c.GetString(requestIDKey)).Logger()
	return form.NewController(s.predictor, s.previewer, page, form.WithLogger(logger))
}

// readFile returns the uploaded image, or nil when no file was selected
func (s *Server) readFile(c *gin.Context) (*types.ImageFile, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			return nil, fmt.Errorf("upload exceeds %s", utils.FormatFileSize(s.maxUpload))
		default:
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &types.ImageFile{
		Name:        utils.SanitizeFilename(header.Filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}
