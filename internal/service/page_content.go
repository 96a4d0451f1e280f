package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"semantiapi/internal/apperr"
	"semantiapi/internal/model"
	"semantiapi/internal/repository"
	"semantiapi/internal/scraper"
)

var ErrPageNotFound = apperr.NotFound("Content not found")

// PageContentService defines the use cases for captured web pages.
type PageContentService interface {
	// Create stores a new page and schedules its analysis. A page with the same URL is a conflict.
	Create(ctx context.Context, p *model.PageContent) (*model.PageContent, error)

	FindByURL(ctx context.Context, rawURL string) (*model.PageContent, error)
	FindByID(ctx context.Context, id string) (*model.PageContent, error)
	FindAll(ctx context.Context) ([]model.PageContent, error)
	UpdateByURL(ctx context.Context, rawURL string, patch []byte) (*model.PageContent, error)
	DeleteByURL(ctx context.Context, rawURL string) error

	// AnalyzeByID classifies the stored page text, persists the categorized record and
	// records the outcome on the page.
	AnalyzeByID(ctx context.Context, id string) (*IngestResult, error)
}

// Dispatcher runs fn outside the request.
type Dispatcher func(fn func())

// PageContentOption customizes a page content service.
type PageContentOption func(*pageContentService)

// WithDispatcher replaces the goroutine dispatcher used for background analysis.
func WithDispatcher(d Dispatcher) PageContentOption {
	return func(s *pageContentService) { s.dispatch = d }
}

// WithAnalysisTimeout bounds each background analysis.
func WithAnalysisTimeout(d time.Duration) PageContentOption {
	return func(s *pageContentService) { s.analysisTimeout = d }
}

type pageContentService struct {
	pages           ContentService[model.PageContent]
	classifier      *Classifier
	ingest          *Ingestor
	log             *zap.Logger
	dispatch        Dispatcher
	analysisTimeout time.Duration
}

func NewPageContentService(pages ContentService[model.PageContent], classifier *Classifier, ingest *Ingestor, log *zap.Logger, opts ...PageContentOption) PageContentService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &pageContentService{
		pages:           pages,
		classifier:      classifier,
		ingest:          ingest,
		log:             log,
		dispatch:        func(fn func()) { go fn() },
		analysisTimeout: 2 * time.Minute,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *pageContentService) Create(ctx context.Context, p *model.PageContent) (*model.PageContent, error) {
	if p == nil {
		return nil, apperr.BadRequest("Request body is required")
	}
	if p.Text == "" && p.HTML != "" {
		if text, err := scraper.HTMLToText(p.HTML); err == nil {
			p.Text = text
		}
	}
	p.Normalize()

	if p.URL != "" {
		existing, err := s.pages.FindOne(ctx, repository.Filter{"url": p.URL})
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Content for this URL already exists")
		}
	}

	created, err := s.pages.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	id := created.ID.Hex()
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.analysisTimeout)
		defer cancel()
		res, err := s.AnalyzeByID(ctx, id)
		if err != nil {
			s.log.Warn("page_analysis_failed", zap.String("page_id", id), zap.Error(err))
			return
		}
		s.log.Info("page_analysis_done",
			zap.String("page_id", id),
			zap.String("category", res.Category),
			zap.String("record_id", res.ID),
		)
	})
	return created, nil
}

func (s *pageContentService) FindByURL(ctx context.Context, rawURL string) (*model.PageContent, error) {
	u, err := unescapeURL(rawURL)
	if err != nil {
		return nil, err
	}
	p, err := s.pages.FindOne(ctx, repository.Filter{"url": u})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *pageContentService) FindByID(ctx context.Context, id string) (*model.PageContent, error) {
	return s.pages.Get(ctx, id)
}

func (s *pageContentService) FindAll(ctx context.Context) ([]model.PageContent, error) {
	return s.pages.FindAll(ctx, repository.Filter{})
}

func (s *pageContentService) UpdateByURL(ctx context.Context, rawURL string, patch []byte) (*model.PageContent, error) {
	p, err := s.FindByURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return s.pages.Update(ctx, p.ID.Hex(), patch)
}

func (s *pageContentService) DeleteByURL(ctx context.Context, rawURL string) error {
	p, err := s.FindByURL(ctx, rawURL)
	if err != nil {
		return err
	}
	return s.pages.Delete(ctx, p.ID.Hex())
}

func (s *pageContentService) AnalyzeByID(ctx context.Context, id string) (*IngestResult, error) {
	page, err := s.pages.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	analysis, err := s.classifier.Analyze(ctx, page.Text)
	if err == nil {
		var res *IngestResult
		res, err = s.ingest.Persist(ctx, analysis, page.URL)
		if err == nil {
			if _, uerr := s.setStatus(ctx, page, model.PageStatusAnalyzed, map[string]any{
				"category": res.Category,
				"recordId": res.ID,
			}); uerr != nil {
				// The record exists; failing here would make a retry ingest it twice.
				s.log.Error("page_status_update_failed", zap.String("page_id", id), zap.String("record_id", res.ID), zap.Error(uerr))
			}
			return res, nil
		}
	}

	if _, uerr := s.setStatus(ctx, page, model.PageStatusFailed, map[string]any{"error": err.Error()}); uerr != nil {
		s.log.Error("page_status_update_failed", zap.String("page_id", id), zap.Error(uerr))
	}
	return nil, err
}

func (s *pageContentService) setStatus(ctx context.Context, page *model.PageContent, status string, meta map[string]any) (*model.PageContent, error) {
	merged := make(map[string]any, len(page.Metadata)+len(meta))
	for k, v := range page.Metadata {
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}
	patch, err := json.Marshal(map[string]any{"status": status, "metadata": merged})
	if err != nil {
		return nil, err
	}
	return s.pages.Update(ctx, page.ID.Hex(), patch)
}

func unescapeURL(raw string) (string, error) {
	u, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperr.BadRequest("Invalid url: " + raw)
	}
	return u, nil
}

func isNotFound(err error) bool {
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	ae, ok := apperr.As(err)
	return ok && ae.Status == http.StatusNotFound
}
