package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"semantiapi/internal/repository"
	"semantiapi/internal/service"
)

// CreateRecord decodes the body into a new T and stores it. Responds 201 with the record.
func CreateRecord[T any](svc service.ContentService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec := new(T)
		if err := json.Unmarshal(c.Body(), rec); err != nil {
			return service.DecodeError(err)
		}
		out, err := svc.Create(c.UserContext(), rec)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

func GetRecord[T any](svc service.ContentService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// UpdateRecord applies the body as a partial update.
func UpdateRecord[T any](svc service.ContentService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.Update(c.UserContext(), c.Params("id"), c.Body())
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

func DeleteRecord[T any](svc service.ContentService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListRecords lists with the query string as filter parameters. Entries in fixed
// override the query string.
func ListRecords[T any](svc service.ContentService[T], fixed map[string]string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := list(c, svc, fixed, repository.DefaultLimit)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// ListByParam lists records whose filter key matches the route parameter param.
func ListByParam[T any](svc service.ContentService[T], param, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := pathParam(c, param)
		if err != nil {
			return err
		}
		res, err := list(c, svc, map[string]string{key: v}, repository.DefaultLimit)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func list[T any](c *fiber.Ctx, svc service.ContentService[T], fixed map[string]string, defaultLimit int) (*repository.PageResult[T], error) {
	pq, err := pageQuery(c, defaultLimit)
	if err != nil {
		return nil, err
	}
	params := queryParams(c)
	for k, v := range fixed {
		params[k] = v
	}
	return svc.List(c.UserContext(), params, pq)
}

// registerCRUD mounts the shared record routes on r. Call it after any static
// routes so /:id does not shadow them.
func registerCRUD[T any](r fiber.Router, svc service.ContentService[T]) {
	r.Post("/", CreateRecord(svc))
	r.Get("/", ListRecords(svc, nil))
	r.Get("/:id", GetRecord(svc))
	r.Patch("/:id", UpdateRecord(svc))
	r.Delete("/:id", DeleteRecord(svc))
}
