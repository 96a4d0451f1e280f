package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"semantiapi/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// RegisterUser creates an account.
//
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/users/register [post]
func RegisterUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := json.Unmarshal(c.Body(), &in); err != nil {
			return service.DecodeError(err)
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return err
		}
		return ok(c, fiber.StatusCreated, u)
	}
}

// Login checks credentials and returns a signed token.
//
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} errorPayload
// @Router /api/users/login [post]
func Login(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := json.Unmarshal(c.Body(), &in); err != nil {
			return service.DecodeError(err)
		}
		res, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return err
		}
		return ok(c, fiber.StatusOK, res)
	}
}

func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pq, err := pageQuery(c, 10)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), pq.Page, pq.Limit)
		if err != nil {
			return err
		}
		return ok(c, fiber.StatusOK, res)
	}
}

func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return ok(c, fiber.StatusOK, u)
	}
}

func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Update(c.UserContext(), c.Params("id"), c.Body())
		if err != nil {
			return err
		}
		return ok(c, fiber.StatusOK, u)
	}
}

func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
