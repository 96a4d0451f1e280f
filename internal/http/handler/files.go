package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"semantiapi/internal/apperr"
	"semantiapi/internal/service"
)

type fileSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"uploadDate"`
	Size       int64     `json:"size"`
	Mimetype   string    `json:"mimetype"`
	Parsed     bool      `json:"parsed"`
}

// UploadFile accepts multipart/form-data with a file field and the owning userId.
//
// @Summary Upload a document
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or DOCX"
// @Param userId formData string true "owner"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/files/upload [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return apperr.BadRequest("No file uploaded")
		}

		f, err := fh.Open()
		if err != nil {
			return apperr.BadRequest("Cannot open uploaded file")
		}
		defer f.Close()

		stored, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:       f,
			OriginalName: fh.Filename,
			Size:         fh.Size,
			UserID:       c.FormValue("userId"),
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  "File uploaded successfully",
			"fileId":   stored.ID,
			"filename": stored.OriginalName,
		})
	}
}

// GetFile answers {signedUrl} when the store can presign, otherwise streams the bytes.
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Download(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		if d.URL != "" {
			return c.JSON(fiber.Map{"signedUrl": d.URL})
		}
		c.Set(fiber.HeaderContentType, d.File.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", d.File.OriginalName))
		size := -1
		if d.Length > 0 {
			size = int(d.Length)
		}
		return c.SendStream(d.Body, size)
	}
}

func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "File deleted successfully"})
	}
}

// ParseFile extracts the text of a stored PDF.
func ParseFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := svc.Parse(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(f)
	}
}

func ListUserFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.ListByUser(c.UserContext(), c.Params("userId"))
		if err != nil {
			return err
		}
		out := make([]fileSummary, 0, len(files))
		for _, f := range files {
			out = append(out, fileSummary{
				ID:         f.ID,
				Filename:   f.OriginalName,
				UploadDate: f.CreatedAt,
				Size:       f.Size,
				Mimetype:   f.ContentType,
				Parsed:     f.Parsed,
			})
		}
		return c.JSON(fiber.Map{"files": out})
	}
}
