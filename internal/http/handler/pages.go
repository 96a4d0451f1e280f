package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"semantiapi/internal/model"
	"semantiapi/internal/service"
)

// CreatePage stores a captured page. Classification runs in the background.
//
// @Summary Save page content
// @Tags page-content
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 409 {object} errorPayload
// @Router /api/page-content [post]
func CreatePage(svc service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.PageContent
		if err := json.Unmarshal(c.Body(), &p); err != nil {
			return service.DecodeError(err)
		}
		out, err := svc.Create(c.UserContext(), &p)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    out,
			"message": "Content saved successfully",
		})
	}
}

func ListPages(svc service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pages, err := svc.FindAll(c.UserContext())
		if err != nil {
			return err
		}
		if pages == nil {
			pages = []model.PageContent{}
		}
		return c.JSON(fiber.Map{"success": true, "links": pages})
	}
}

func GetPageByID(svc service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.FindByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": p})
	}
}

// GetPageByURL expects the page URL percent-encoded as a single path segment.
func GetPageByURL(svc service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.FindByURL(c.UserContext(), c.Params("url"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": p})
	}
}

func UpdatePageByURL(svc service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.UpdateByURL(c.UserContext(), c.Params("url"), c.Body())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": p})
	}
}

func DeletePageByURL(svc service.PageContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteByURL(c.UserContext(), c.Params("url")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "message": "Content deleted successfully"})
	}
}
