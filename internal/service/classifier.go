package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"semantiapi/internal/apperr"
	"semantiapi/internal/llm"
	"semantiapi/internal/model"
)

// Content categories.
const (
	CategoryJob         = "job"
	CategoryScholarship = "scholarship"
	CategoryBlog        = "blog"
	CategoryNews        = "news"
	CategoryTechnical   = "technical"
	CategoryOther       = "other"
)

var categoryAliases = map[string]string{
	"job":                     CategoryJob,
	"jobs":                    CategoryJob,
	"job description":         CategoryJob,
	"job posting":             CategoryJob,
	"jobdescription":          CategoryJob,
	"scholarship":             CategoryScholarship,
	"scholarships":            CategoryScholarship,
	"admission":               CategoryScholarship,
	"university admission":    CategoryScholarship,
	"blog":                    CategoryBlog,
	"blog post":               CategoryBlog,
	"article":                 CategoryBlog,
	"news":                    CategoryNews,
	"news article":            CategoryNews,
	"technical":               CategoryTechnical,
	"technical documentation": CategoryTechnical,
	"documentation":           CategoryTechnical,
	"tutorial":                CategoryTechnical,
	"other":                   CategoryOther,
}

// NormalizeCategory maps a model-provided label onto a known category. The second
// result is false when the label was not recognised.
func NormalizeCategory(label string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(label))), " ")
	c, ok := categoryAliases[key]
	if !ok {
		return CategoryOther, false
	}
	return c, true
}

// Analysis is the classification of a piece of text.
type Analysis struct {
	Category string         `json:"category"`
	Data     map[string]any `json:"data"`
}

// Classifier asks the model which category a text belongs to and extracts its fields.
type Classifier struct {
	llm   llm.Client
	model string
}

func NewClassifier(client llm.Client, model string) *Classifier {
	return &Classifier{llm: client, model: model}
}

// Analyze classifies text. The answer may use either type or category for the label and
// either data or details for the payload.
func (c *Classifier) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.BadRequest("Text content is required")
	}
	raw, err := c.llm.Complete(ctx, c.model, llm.PromptClassify, text)
	if err != nil {
		return nil, err
	}
	parsed, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	out := &Analysis{Category: CategoryOther}
	labelKey := ""
	for _, key := range []string{"category", "type"} {
		if label, ok := parsed[key].(string); ok {
			if cat, known := NormalizeCategory(label); known {
				out.Category = cat
				labelKey = key
				break
			}
		}
	}
	for _, key := range []string{"data", "details"} {
		if d, ok := parsed[key].(map[string]any); ok {
			out.Data = d
			break
		}
	}
	if out.Data == nil {
		// type is only ever a label. category is also a news field, so it is kept
		// unless it was the label.
		out.Data = make(map[string]any, len(parsed))
		for k, v := range parsed {
			if k == "type" || k == labelKey {
				continue
			}
			out.Data[k] = v
		}
	}
	return out, nil
}

// IngestResult describes the record an analysis was stored as.
type IngestResult struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	Record   any    `json:"record"`
	// Fallback is set when the payload did not fit its category and was kept as other content.
	Fallback bool `json:"fallback,omitempty"`
}

type persistFunc func(ctx context.Context, data []byte) (string, any, error)

func persistAs[T any, PT model.RecordPtr[T]](svc ContentService[T]) persistFunc {
	return func(ctx context.Context, data []byte) (string, any, error) {
		rec := new(T)
		if err := json.Unmarshal(data, rec); err != nil {
			return "", nil, DecodeError(err)
		}
		out, err := svc.Create(ctx, rec)
		if err != nil {
			return "", nil, err
		}
		return PT(out).GetID().Hex(), out, nil
	}
}

// Ingestor stores classified content in the collection of its category.
type Ingestor struct {
	persist map[string]persistFunc
	others  ContentService[model.Other]
	log     *zap.Logger
}

func NewIngestor(s *Services, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{
		persist: map[string]persistFunc{
			CategoryJob:         persistAs[model.JobDescription](s.Jobs),
			CategoryScholarship: persistAs[model.Scholarship](s.Scholarships),
			CategoryBlog:        persistAs[model.Blog](s.Blogs),
			CategoryNews:        persistAs[model.News](s.News),
			CategoryTechnical:   persistAs[model.Technical](s.Technical),
			CategoryOther:       persistAs[model.Other](s.Others),
		},
		others: s.Others,
		log:    log,
	}
}

// Persist stores a under its category with source stamped on the record. A payload
// that fails validation for its category is kept as other content with the raw
// payload in content_details.
func (in *Ingestor) Persist(ctx context.Context, a *Analysis, source string) (*IngestResult, error) {
	if a == nil {
		return nil, errors.New("nil analysis")
	}
	data := make(map[string]any, len(a.Data)+1)
	for k, v := range a.Data {
		data[k] = v
	}
	if _, ok := data["source"]; !ok && source != "" {
		data["source"] = source
	}

	cat, _ := NormalizeCategory(a.Category)
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	id, rec, err := in.persist[cat](ctx, payload)
	if err == nil {
		return &IngestResult{Category: cat, ID: id, Record: rec}, nil
	}
	if !isInvalidRecord(err) {
		return nil, err
	}

	in.log.Info("ingest_fallback_other", zap.String("category", cat), zap.Error(err))
	other := fallbackOther(cat, data, source)
	stored, err := in.others.Create(ctx, other)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Category: CategoryOther, ID: stored.ID.Hex(), Record: stored, Fallback: true}, nil
}

func isInvalidRecord(err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	if ae, ok := apperr.As(err); ok {
		return ae.Status == http.StatusBadRequest
	}
	return false
}

func fallbackOther(category string, data map[string]any, source string) *model.Other {
	title, _ := data["title"].(string)
	if title == "" {
		for _, k := range []string{"job_position", "scholarship_name", "name", "heading"} {
			if s, ok := data[k].(string); ok && s != "" {
				title = s
				break
			}
		}
	}
	if title == "" {
		title = "Untitled " + category
	}
	summary, _ := data["summary"].(string)
	return &model.Other{
		Title:          title,
		ContentType:    category,
		Source:         source,
		Summary:        summary,
		ContentDetails: data,
	}
}
