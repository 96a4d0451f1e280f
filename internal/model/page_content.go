package model

import (
	"net/url"
	"strings"
)

// Page content analysis states.
const (
	PageStatusPending  = "pending"
	PageStatusAnalyzed = "analyzed"
	PageStatusFailed   = "failed"
)

// PageContent is a captured web page awaiting or holding its classification.
type PageContent struct {
	Base        `bson:",inline"`
	Title       string         `json:"title" bson:"title" validate:"required"`
	Text        string         `json:"text" bson:"text" validate:"required"`
	URL         string         `json:"url" bson:"url" validate:"required"`
	BaseURL     string         `json:"baseurl,omitempty" bson:"baseurl,omitempty"`
	HTML        string         `json:"html,omitempty" bson:"html,omitempty"`
	Media       []string       `json:"media" bson:"media"`
	ContentType string         `json:"contentType" bson:"contentType" validate:"oneof=article news blog resource other"`
	Metadata    map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Status      string         `json:"status" bson:"status" validate:"oneof=pending analyzed failed"`
}

// Normalize collapses whitespace in the text and fills baseurl from the page URL.
func (p *PageContent) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Text = strings.Join(strings.Fields(p.Text), " ")
	p.URL = strings.TrimSpace(p.URL)
	if p.BaseURL == "" {
		if u, err := url.Parse(p.URL); err == nil && u.Host != "" {
			p.BaseURL = u.Scheme + "://" + u.Host
		}
	}
	if p.Media == nil {
		p.Media = []string{}
	}
	if p.ContentType == "" {
		p.ContentType = "other"
	}
	if p.Status == "" {
		p.Status = PageStatusPending
	}
}
