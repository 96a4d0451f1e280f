package model

import "strings"

// Scholarship is a funding opportunity.
type Scholarship struct {
	Base           `bson:",inline"`
	Title          string         `json:"title" bson:"title" validate:"required"`
	Organization   string         `json:"organization" bson:"organization" validate:"required"`
	Amount         string         `json:"amount" bson:"amount" validate:"required"`
	Deadline       *Date          `json:"deadline" bson:"deadline,omitempty" validate:"required"`
	Eligibility    []string       `json:"eligibility" bson:"eligibility" validate:"required,min=1"`
	Requirements   []string       `json:"requirements" bson:"requirements" validate:"required,min=1"`
	FieldOfStudy   []string       `json:"field_of_study" bson:"field_of_study" validate:"required,min=1"`
	DegreeLevel    []string       `json:"degree_level" bson:"degree_level" validate:"required,min=1"`
	Country        string         `json:"country" bson:"country" validate:"required"`
	Link           string         `json:"link" bson:"link" validate:"required"`
	Status         string         `json:"status" bson:"status" validate:"oneof=active expired upcoming"`
	AdditionalInfo map[string]any `json:"additional_info,omitempty" bson:"additional_info,omitempty"`
	Source         string         `json:"source,omitempty" bson:"source,omitempty"`
}

func (s *Scholarship) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.Organization = strings.TrimSpace(s.Organization)
	s.Amount = strings.TrimSpace(s.Amount)
	s.Country = strings.TrimSpace(s.Country)
	s.Link = strings.TrimSpace(s.Link)
	s.Status = strings.ToLower(strings.TrimSpace(s.Status))
	if s.Status == "" {
		s.Status = "active"
	}
}
