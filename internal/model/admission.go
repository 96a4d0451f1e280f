package model

import "strings"

// Admission is a university programme admission notice.
type Admission struct {
	Base                  `bson:",inline"`
	University            string   `json:"university" bson:"university" validate:"required"`
	ProgramTitle          string   `json:"programTitle" bson:"programTitle" validate:"required"`
	Degree                string   `json:"degree" bson:"degree" validate:"required"`
	Duration              string   `json:"duration" bson:"duration" validate:"required"`
	LanguageOfInstruction string   `json:"languageOfInstruction,omitempty" bson:"languageOfInstruction,omitempty"`
	AdmissionRequirements []string `json:"admissionRequirements" bson:"admissionRequirements" validate:"required,min=1"`
	DocumentsRequired     []string `json:"documentsRequired" bson:"documentsRequired" validate:"required,min=1"`
	ApplicationDeadline   *Date    `json:"applicationDeadline,omitempty" bson:"applicationDeadline,omitempty"`
	ApplicationURL        string   `json:"applicationURL,omitempty" bson:"applicationURL,omitempty"`
	TuitionFee            string   `json:"tuitionFee,omitempty" bson:"tuitionFee,omitempty"`
	AdditionalInfo        string   `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
	Status                string   `json:"status" bson:"status" validate:"oneof=open closed"`
}

func (a *Admission) Normalize() {
	a.University = strings.TrimSpace(a.University)
	a.ProgramTitle = strings.TrimSpace(a.ProgramTitle)
	a.Degree = strings.TrimSpace(a.Degree)
	a.Duration = strings.TrimSpace(a.Duration)
	a.LanguageOfInstruction = strings.TrimSpace(a.LanguageOfInstruction)
	a.ApplicationURL = strings.TrimSpace(a.ApplicationURL)
	a.TuitionFee = strings.TrimSpace(a.TuitionFee)
	if a.Status == "" {
		a.Status = "open"
	}
}
