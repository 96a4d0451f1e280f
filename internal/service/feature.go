package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"semantiapi/internal/apperr"
	"semantiapi/internal/llm"
	"semantiapi/internal/scraper"
)

// Fetcher downloads a page and returns its readable content.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*scraper.Page, error)
}

// FeatureService defines the model-backed utilities exposed under /features.
type FeatureService interface {
	// AnalyzeContent classifies text and stores it in the collection of its category.
	AnalyzeContent(ctx context.Context, text, source string) (*IngestResult, error)

	// AnalyzeJob extracts job posting fields from text without storing them.
	AnalyzeJob(ctx context.Context, text string) (map[string]any, error)

	// SummarizeContent returns {summary, key_points, word_count}.
	SummarizeContent(ctx context.Context, text string) (map[string]any, error)

	// Summary returns a short HTML overview (300-500 characters).
	Summary(ctx context.Context, text string) (string, error)

	// Overview returns a detailed HTML summary (800-1000 characters).
	Overview(ctx context.Context, text string) (string, error)

	// ExtractText turns HTML into meaningful text.
	ExtractText(ctx context.Context, html string) (string, error)

	// FetchURL downloads a page and returns its readable text.
	FetchURL(ctx context.Context, rawURL string) (*scraper.Page, error)
}

type featureService struct {
	llm          llm.Client
	model        string
	summaryModel string
	classifier   *Classifier
	ingest       *Ingestor
	fetcher      Fetcher
}

func NewFeatureService(client llm.Client, model, summaryModel string, classifier *Classifier, ingest *Ingestor, fetcher Fetcher) FeatureService {
	if summaryModel == "" {
		summaryModel = model
	}
	return &featureService{
		llm:          client,
		model:        model,
		summaryModel: summaryModel,
		classifier:   classifier,
		ingest:       ingest,
		fetcher:      fetcher,
	}
}

func requireText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.BadRequest("Text content is required")
	}
	return nil
}

func (s *featureService) AnalyzeContent(ctx context.Context, text, source string) (*IngestResult, error) {
	a, err := s.classifier.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.ingest.Persist(ctx, a, source)
}

func (s *featureService) AnalyzeJob(ctx context.Context, text string) (map[string]any, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	raw, err := s.llm.Complete(ctx, s.model, llm.PromptAnalyzeJob, text)
	if err != nil {
		return nil, err
	}
	return llm.ExtractJSON(raw)
}

func (s *featureService) SummarizeContent(ctx context.Context, text string) (map[string]any, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	raw, err := s.llm.Complete(ctx, s.model, llm.PromptSummarize, text)
	if err != nil {
		return nil, err
	}
	return llm.ParseJSON(raw)
}

func (s *featureService) Summary(ctx context.Context, text string) (string, error) {
	return s.html(ctx, llm.PromptSummaryHTML, text)
}

func (s *featureService) Overview(ctx context.Context, text string) (string, error) {
	return s.html(ctx, llm.PromptOverviewHTML, text)
}

func (s *featureService) ExtractText(ctx context.Context, html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", apperr.BadRequest("HTML content is required")
	}
	out, err := s.llm.Complete(ctx, s.summaryModel, llm.PromptHTMLToText, html)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", llm.ErrNoResponse
	}
	return out, nil
}

func (s *featureService) html(ctx context.Context, prompt, text string) (string, error) {
	if err := requireText(text); err != nil {
		return "", err
	}
	out, err := s.llm.Complete(ctx, s.summaryModel, prompt, text)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", llm.ErrNoResponse
	}
	return stripFence(out), nil
}

// stripFence removes a ```html fence some models wrap snippets in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func (s *featureService) FetchURL(ctx context.Context, rawURL string) (*scraper.Page, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, apperr.BadRequest("URL is required")
	}
	p, err := s.fetcher.Fetch(ctx, rawURL)
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return nil, apperr.BadRequest("Invalid URL: " + rawURL)
	case errors.Is(err, scraper.ErrBlockedAddress):
		return nil, apperr.BadRequest("URL host is not allowed: " + rawURL)
	case errors.Is(err, scraper.ErrPageTooLarge):
		return nil, apperr.Wrap(http.StatusBadGateway, "Page exceeds the fetch size limit", err)
	case err != nil:
		return nil, apperr.Wrap(http.StatusBadGateway, "Unable to fetch URL", err)
	}
	return p, nil
}
