package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"semantiapi/internal/apperr"
	"semantiapi/internal/repository"
)

var timeNow = time.Now

// exactFold matches v case-insensitively as the whole field value.
func exactFold(v string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}
}

// splitList reads "a,b" or "a" into a trimmed, non-empty slice.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fieldFilter copies each listed param verbatim onto its field when present.
func fieldFilter(f repository.Filter, params map[string]string, mapping map[string]string) {
	for param, field := range mapping {
		if v := strings.TrimSpace(params[param]); v != "" {
			f[field] = v
		}
	}
}

func parseBoolParam(params map[string]string, name string) (*bool, error) {
	v := strings.TrimSpace(params[name])
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperr.BadRequest("Invalid " + name + ": " + v)
	}
	return &b, nil
}

func parseIntParam(params map[string]string, name string) (*int, error) {
	v := strings.TrimSpace(params[name])
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, apperr.BadRequest("Invalid " + name + ": " + v)
	}
	return &n, nil
}

// JobFilters: status, job_type, workplace, tech_stack (any of), min_experience.
func JobFilters(params map[string]string) (repository.Filter, error) {
	f := repository.Filter{}
	fieldFilter(f, params, map[string]string{
		"status":    "status",
		"workplace": "workplace",
	})
	if v := strings.TrimSpace(params["job_type"]); v != "" {
		f["job_type"] = strings.ReplaceAll(strings.ToLower(v), "-", " ")
	}
	if stack := splitList(params["tech_stack"]); len(stack) > 0 {
		f["tech_stack"] = bson.M{"$in": stack}
	}
	n, err := parseIntParam(params, "min_experience")
	if err != nil {
		return nil, err
	}
	if n != nil {
		f["professional_experience"] = bson.M{"$gte": *n}
	}
	return f, nil
}

// ScholarshipFilters: status, country, degree_level and field_of_study (any of).
func ScholarshipFilters(params map[string]string) (repository.Filter, error) {
	f := repository.Filter{}
	fieldFilter(f, params, map[string]string{"status": "status"})
	if v := strings.TrimSpace(params["country"]); v != "" {
		f["country"] = exactFold(v)
	}
	if levels := splitList(params["degree_level"]); len(levels) > 0 {
		f["degree_level"] = bson.M{"$in": levels}
	}
	if fields := splitList(params["field_of_study"]); len(fields) > 0 {
		f["field_of_study"] = bson.M{"$in": fields}
	}
	return f, nil
}

// BlogFilters: sentiment, complexity, tag.
func BlogFilters(params map[string]string) (repository.Filter, error) {
	f := repository.Filter{}
	fieldFilter(f, params, map[string]string{
		"sentiment":  "sentiment",
		"complexity": "complexity",
		"tag":        "tags",
	})
	return f, nil
}

// NewsFilters: the blog filters plus category, region and is_breaking.
func NewsFilters(params map[string]string) (repository.Filter, error) {
	f, _ := BlogFilters(params)
	if v := strings.TrimSpace(params["category"]); v != "" {
		f["category"] = exactFold(v)
	}
	if v := strings.TrimSpace(params["region"]); v != "" {
		f["region"] = exactFold(v)
	}
	b, err := parseBoolParam(params, "is_breaking")
	if err != nil {
		return nil, err
	}
	if b != nil {
		f["is_breaking"] = *b
	}
	return f, nil
}

// TechnicalFilters: sentiment, complexity (complexity_level), tag, technology, content_type.
func TechnicalFilters(params map[string]string) (repository.Filter, error) {
	f := repository.Filter{}
	fieldFilter(f, params, map[string]string{
		"sentiment":    "sentiment",
		"complexity":   "complexity_level",
		"tag":          "tags",
		"content_type": "content_type",
	})
	if v := strings.TrimSpace(params["technology"]); v != "" {
		f["technology"] = exactFold(v)
	}
	return f, nil
}

// OtherFilters: sentiment, complexity, tag, content_type.
func OtherFilters(params map[string]string) (repository.Filter, error) {
	f, _ := BlogFilters(params)
	if v := strings.TrimSpace(params["content_type"]); v != "" {
		f["content_type"] = exactFold(v)
	}
	return f, nil
}

// AdmissionFilters: university, degree, languageOfInstruction, status and
// deadline_within_days (deadline between now and now+N days).
func AdmissionFilters(params map[string]string) (repository.Filter, error) {
	f := repository.Filter{}
	fieldFilter(f, params, map[string]string{"status": "status"})
	for _, field := range []string{"university", "degree", "languageOfInstruction"} {
		if v := strings.TrimSpace(params[field]); v != "" {
			f[field] = exactFold(v)
		}
	}
	days, err := parseIntParam(params, "deadline_within_days")
	if err != nil {
		return nil, err
	}
	if days != nil {
		now := timeNow().UTC()
		f["applicationDeadline"] = bson.M{
			"$gte": now,
			"$lte": now.AddDate(0, 0, *days),
		}
	}
	return f, nil
}
