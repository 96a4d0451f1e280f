package handler

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"semantiapi/internal/apperr"
	"semantiapi/internal/repository"
)

// pageQuery reads limit, page, sortBy and sortOrder. Missing numbers fall back to
// defaultLimit and page 1; malformed ones are a 400.
func pageQuery(c *fiber.Ctx, defaultLimit int) (repository.PageQuery, error) {
	limit, err := intQuery(c, "limit", defaultLimit)
	if err != nil {
		return repository.PageQuery{}, err
	}
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return repository.PageQuery{}, err
	}
	return repository.PageQuery{
		Limit:     limit,
		Page:      page,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}, nil
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.BadRequest("Invalid " + key + ": " + raw)
	}
	return n, nil
}

// queryParams copies the query string so the values outlive the request buffer.
func queryParams(c *fiber.Ctx) map[string]string {
	params := make(map[string]string)
	for k, v := range c.Queries() {
		params[utils.CopyString(k)] = utils.CopyString(v)
	}
	return params
}

// pathParam returns the decoded value of a route parameter.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperr.BadRequest("Invalid " + name + ": " + raw)
	}
	return v, nil
}
