package model

import "strings"

// Blog is an opinion or long-form post.
type Blog struct {
	Base             `bson:",inline"`
	Title            string         `json:"title" bson:"title" validate:"required"`
	Author           string         `json:"author" bson:"author" validate:"required"`
	PublicationDate  *Date          `json:"publication_date" bson:"publication_date,omitempty" validate:"required"`
	Source           string         `json:"source" bson:"source" validate:"required"`
	Summary          string         `json:"summary" bson:"summary" validate:"required"`
	KeyPoints        []string       `json:"key_points" bson:"key_points" validate:"required,min=1"`
	TopicsCovered    []string       `json:"topics_covered" bson:"topics_covered" validate:"required,min=1"`
	TargetAudience   string         `json:"target_audience" bson:"target_audience" validate:"required"`
	Tags             []string       `json:"tags" bson:"tags"`
	Sentiment        string         `json:"sentiment" bson:"sentiment" validate:"required,oneof=positive negative neutral"`
	Complexity       string         `json:"complexity" bson:"complexity" validate:"required,oneof=basic intermediate advanced"`
	ReadabilityScore *float64       `json:"readability_score" bson:"readability_score,omitempty" validate:"required,min=0,max=100"`
	AdditionalInfo   map[string]any `json:"additional_info,omitempty" bson:"additional_info,omitempty"`
	ExtraData        map[string]any `json:"extra_data,omitempty" bson:"extra_data,omitempty"`
}

func (b *Blog) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Source = strings.TrimSpace(b.Source)
	b.TargetAudience = strings.TrimSpace(b.TargetAudience)
	b.Sentiment = strings.ToLower(strings.TrimSpace(b.Sentiment))
	b.Complexity = strings.ToLower(strings.TrimSpace(b.Complexity))
	if b.Tags == nil {
		b.Tags = []string{}
	}
}

// News is a news article. It extends the blog shape with a category and breaking flag.
type News struct {
	Base             `bson:",inline"`
	Title            string         `json:"title" bson:"title" validate:"required"`
	Author           string         `json:"author" bson:"author" validate:"required"`
	PublicationDate  *Date          `json:"publication_date" bson:"publication_date,omitempty" validate:"required"`
	Source           string         `json:"source" bson:"source" validate:"required"`
	Summary          string         `json:"summary" bson:"summary" validate:"required"`
	KeyPoints        []string       `json:"key_points" bson:"key_points" validate:"required,min=1"`
	TopicsCovered    []string       `json:"topics_covered" bson:"topics_covered" validate:"required,min=1"`
	TargetAudience   string         `json:"target_audience" bson:"target_audience" validate:"required"`
	Category         string         `json:"category" bson:"category" validate:"required"`
	Tags             []string       `json:"tags" bson:"tags"`
	Sentiment        string         `json:"sentiment" bson:"sentiment" validate:"required,oneof=positive negative neutral"`
	Complexity       string         `json:"complexity" bson:"complexity" validate:"required,oneof=basic intermediate advanced"`
	ReadabilityScore *float64       `json:"readability_score" bson:"readability_score,omitempty" validate:"required,min=0,max=100"`
	IsBreaking       bool           `json:"is_breaking" bson:"is_breaking"`
	Region           string         `json:"region,omitempty" bson:"region,omitempty"`
	AdditionalInfo   map[string]any `json:"additional_info,omitempty" bson:"additional_info,omitempty"`
	ExtraData        map[string]any `json:"extra_data,omitempty" bson:"extra_data,omitempty"`
}

func (n *News) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Author = strings.TrimSpace(n.Author)
	n.Source = strings.TrimSpace(n.Source)
	n.TargetAudience = strings.TrimSpace(n.TargetAudience)
	n.Category = strings.TrimSpace(n.Category)
	n.Region = strings.TrimSpace(n.Region)
	n.Sentiment = strings.ToLower(strings.TrimSpace(n.Sentiment))
	n.Complexity = strings.ToLower(strings.TrimSpace(n.Complexity))
	if n.Tags == nil {
		n.Tags = []string{}
	}
}

// Technical is documentation, a tutorial or another technology-focused text.
type Technical struct {
	Base             `bson:",inline"`
	Title            string         `json:"title" bson:"title" validate:"required"`
	Author           string         `json:"author" bson:"author" validate:"required"`
	PublicationDate  *Date          `json:"publication_date" bson:"publication_date,omitempty" validate:"required"`
	Source           string         `json:"source" bson:"source" validate:"required"`
	Technology       string         `json:"technology" bson:"technology" validate:"required"`
	ComplexityLevel  string         `json:"complexity_level" bson:"complexity_level" validate:"required,oneof=beginner intermediate advanced"`
	CodeSnippets     []string       `json:"code_snippets" bson:"code_snippets"`
	Prerequisites    []string       `json:"prerequisites" bson:"prerequisites" validate:"required,min=1"`
	TargetAudience   string         `json:"target_audience" bson:"target_audience" validate:"required"`
	Tags             []string       `json:"tags" bson:"tags"`
	Sentiment        string         `json:"sentiment" bson:"sentiment" validate:"required,oneof=positive negative neutral"`
	ContentType      string         `json:"content_type" bson:"content_type" validate:"required"`
	ReadabilityScore *float64       `json:"readability_score" bson:"readability_score,omitempty" validate:"required,min=0,max=100"`
	AdditionalInfo   map[string]any `json:"additional_info,omitempty" bson:"additional_info,omitempty"`
	ExtraData        map[string]any `json:"extra_data,omitempty" bson:"extra_data,omitempty"`
}

func (t *Technical) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Author = strings.TrimSpace(t.Author)
	t.Source = strings.TrimSpace(t.Source)
	t.Technology = strings.TrimSpace(t.Technology)
	t.TargetAudience = strings.TrimSpace(t.TargetAudience)
	t.ContentType = strings.TrimSpace(t.ContentType)
	t.ComplexityLevel = strings.ToLower(strings.TrimSpace(t.ComplexityLevel))
	t.Sentiment = strings.ToLower(strings.TrimSpace(t.Sentiment))
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.CodeSnippets == nil {
		t.CodeSnippets = []string{}
	}
}

// Other holds content that fits no specific category. ContentDetails keeps whatever
// structured data the extraction produced.
type Other struct {
	Base             `bson:",inline"`
	Title            string         `json:"title" bson:"title" validate:"required"`
	ContentType      string         `json:"content_type" bson:"content_type" validate:"required"`
	Author           string         `json:"author,omitempty" bson:"author,omitempty"`
	PublicationDate  *Date          `json:"publication_date,omitempty" bson:"publication_date,omitempty"`
	Source           string         `json:"source,omitempty" bson:"source,omitempty"`
	Summary          string         `json:"summary,omitempty" bson:"summary,omitempty"`
	KeyPoints        []string       `json:"key_points" bson:"key_points"`
	TopicsCovered    []string       `json:"topics_covered" bson:"topics_covered"`
	TargetAudience   string         `json:"target_audience,omitempty" bson:"target_audience,omitempty"`
	Tags             []string       `json:"tags" bson:"tags"`
	Sentiment        string         `json:"sentiment,omitempty" bson:"sentiment,omitempty" validate:"omitempty,oneof=positive negative neutral"`
	Complexity       string         `json:"complexity,omitempty" bson:"complexity,omitempty" validate:"omitempty,oneof=basic intermediate advanced"`
	ReadabilityScore *float64       `json:"readability_score,omitempty" bson:"readability_score,omitempty" validate:"omitempty,min=0,max=100"`
	ContentDetails   map[string]any `json:"content_details" bson:"content_details" validate:"required"`
	AdditionalInfo   map[string]any `json:"additional_info,omitempty" bson:"additional_info,omitempty"`
	ExtraData        map[string]any `json:"extra_data,omitempty" bson:"extra_data,omitempty"`
}

func (o *Other) Normalize() {
	o.Title = strings.TrimSpace(o.Title)
	o.ContentType = strings.TrimSpace(o.ContentType)
	o.Sentiment = strings.ToLower(strings.TrimSpace(o.Sentiment))
	o.Complexity = strings.ToLower(strings.TrimSpace(o.Complexity))
	if o.ContentType == "" {
		o.ContentType = "other"
	}
	if o.ContentDetails == nil {
		o.ContentDetails = map[string]any{}
	}
	if o.Tags == nil {
		o.Tags = []string{}
	}
	if o.KeyPoints == nil {
		o.KeyPoints = []string{}
	}
	if o.TopicsCovered == nil {
		o.TopicsCovered = []string{}
	}
}
