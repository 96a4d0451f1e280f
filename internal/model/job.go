package model

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"semantiapi/internal/apperr"
)

// JobDescription is a job posting extracted from a page or created directly.
type JobDescription struct {
	Base                   `bson:",inline"`
	CompanyTitle           string   `json:"company_title" bson:"company_title" validate:"required"`
	JobPosition            string   `json:"job_position" bson:"job_position" validate:"required"`
	JobLocation            string   `json:"job_location" bson:"job_location" validate:"required"`
	JobType                string   `json:"job_type" bson:"job_type" validate:"required,oneof=contract 'full time' 'part time'"`
	Workplace              string   `json:"workplace" bson:"workplace" validate:"required,oneof=remote on-site hybrid"`
	DueDate                *Date    `json:"due_date" bson:"due_date,omitempty" validate:"required"`
	TechStack              []string `json:"tech_stack" bson:"tech_stack"`
	Responsibilities       []string `json:"responsibilities" bson:"responsibilities"`
	ProfessionalExperience *int     `json:"professional_experience" bson:"professional_experience,omitempty" validate:"required,min=0"`
	Requirements           []string `json:"requirements" bson:"requirements"`
	AdditionalSkills       []string `json:"additional_skills,omitempty" bson:"additional_skills,omitempty"`
	CompanyCulture         string   `json:"company_culture" bson:"company_culture" validate:"required"`
	Status                 string   `json:"status" bson:"status" validate:"oneof=active closed"`
	Source                 string   `json:"source,omitempty" bson:"source,omitempty"`
}

var firstNumber = regexp.MustCompile(`\d+`)

// UnmarshalJSON accepts professional_experience as a number or as text such as "5 years"
// and due_date in any format ParseDate understands.
func (j *JobDescription) UnmarshalJSON(b []byte) error {
	type alias JobDescription
	aux := struct {
		*alias
		DueDate                json.RawMessage `json:"due_date"`
		ProfessionalExperience json.RawMessage `json:"professional_experience"`
	}{alias: (*alias)(j)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if len(aux.DueDate) > 0 && string(aux.DueDate) != "null" {
		var d Date
		if err := d.UnmarshalJSON(aux.DueDate); err != nil {
			return apperr.BadRequest(`Invalid due date format. Please provide a valid date string (e.g., "2024-12-31")`)
		}
		j.DueDate = &d
	}
	if len(aux.ProfessionalExperience) > 0 && string(aux.ProfessionalExperience) != "null" {
		years, err := parseExperience(aux.ProfessionalExperience)
		if err != nil {
			return err
		}
		j.ProfessionalExperience = &years
	}
	return nil
}

func parseExperience(raw json.RawMessage) (int, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if m := firstNumber.FindString(s); m != "" {
			return strconv.Atoi(m)
		}
	}
	return 0, apperr.BadRequest(`Invalid professional experience format. Please provide a number or a string containing a number (e.g., "5 years", "3+")`)
}

// Normalize lower-cases job_type and maps "full-time" style spellings onto the enum.
func (j *JobDescription) Normalize() {
	j.CompanyTitle = strings.TrimSpace(j.CompanyTitle)
	j.JobPosition = strings.TrimSpace(j.JobPosition)
	j.JobLocation = strings.TrimSpace(j.JobLocation)
	j.JobType = strings.Join(strings.Fields(strings.ReplaceAll(strings.ToLower(j.JobType), "-", " ")), " ")
	j.Workplace = strings.ToLower(strings.TrimSpace(j.Workplace))
	if j.Workplace == "onsite" || j.Workplace == "on site" {
		j.Workplace = "on-site"
	}
	if j.Status == "" {
		j.Status = "active"
	}
}
