package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"semantiapi/internal/service"
)

// featureRequest is the body accepted by the /features routes.
type featureRequest struct {
	URL     string `json:"url"`
	Source  string `json:"source"`
	HTML    string `json:"html"`
	Content struct {
		Text string `json:"text"`
		HTML string `json:"html"`
	} `json:"content"`
}

func decodeFeature(c *fiber.Ctx) (*featureRequest, error) {
	var req featureRequest
	if len(c.Body()) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, service.DecodeError(err)
	}
	return &req, nil
}

// AnalyzeContent classifies {content:{text}} and stores it under its category.
//
// @Summary Classify and store text
// @Tags features
// @Accept json
// @Produce json
// @Success 200 {object} service.IngestResult
// @Failure 400 {object} errorPayload
// @Router /api/features/analyze [post]
func AnalyzeContent(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		res, err := svc.AnalyzeContent(c.UserContext(), req.Content.Text, req.Source)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// AnalyzePage classifies a stored page by its ID.
func AnalyzePage(pages service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := pages.AnalyzeByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func AnalyzeJob(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		res, err := svc.AnalyzeJob(c.UserContext(), req.Content.Text)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// Summarize accepts {url} or {content:{text}}. A URL is fetched first.
func Summarize(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		text := req.Content.Text
		if strings.TrimSpace(req.URL) != "" {
			page, err := svc.FetchURL(c.UserContext(), req.URL)
			if err != nil {
				return err
			}
			text = page.Text
		}
		res, err := svc.SummarizeContent(c.UserContext(), text)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func Summary(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		html, err := svc.Summary(c.UserContext(), req.Content.Text)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"summary": html})
	}
}

func Overview(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		html, err := svc.Overview(c.UserContext(), req.Content.Text)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"overview": html})
	}
}

// ExtractText accepts {html} or {content:{html}}.
func ExtractText(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		html := req.HTML
		if html == "" {
			html = req.Content.HTML
		}
		text, err := svc.ExtractText(c.UserContext(), html)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"text": text})
	}
}

// Extract fetches {url} and returns its readable text.
func Extract(svc service.FeatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := decodeFeature(c)
		if err != nil {
			return err
		}
		page, err := svc.FetchURL(c.UserContext(), req.URL)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"title": page.Title, "content": page.Text})
	}
}
