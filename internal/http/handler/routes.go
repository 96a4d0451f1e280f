package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"semantiapi/internal/model"
	"semantiapi/internal/service"
)

// Deps carries everything the routes need. Nil services leave their group unmounted.
type Deps struct {
	DB       *sql.DB
	Mongo    Pinger
	Records  *service.Services
	Pages    service.PageContentService
	Features service.FeatureService
	Users    service.UserService
	Files    service.FileService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB, d.Mongo))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	if r := d.Records; r != nil {
		registerJobs(api.Group("/jobs"), r.Jobs)
		registerScholarships(api.Group("/scholarships"), r.Scholarships)
		registerCRUD(api.Group("/blogs"), r.Blogs)
		registerNews(api.Group("/news"), r.News)
		registerTechnical(api.Group("/technical"), r.Technical)
		registerOthers(api.Group("/others"), r.Others)
		registerAdmissions(api.Group("/admissions"), r.Admissions)
	}

	if d.Pages != nil {
		pages := api.Group("/page-content")
		pages.Post("/", CreatePage(d.Pages))
		pages.Get("/", ListPages(d.Pages))
		pages.Get("/id/:id", GetPageByID(d.Pages))
		pages.Get("/:url", GetPageByURL(d.Pages))
		pages.Put("/:url", UpdatePageByURL(d.Pages))
		pages.Delete("/:url", DeletePageByURL(d.Pages))
	}

	if d.Features != nil {
		f := api.Group("/features")
		f.Post("/analyze", AnalyzeContent(d.Features))
		if d.Pages != nil {
			f.Post("/analyze/:id", AnalyzePage(d.Pages))
		}
		f.Post("/analyze-job", AnalyzeJob(d.Features))
		f.Post("/summarize", Summarize(d.Features))
		f.Post("/summary", Summary(d.Features))
		f.Post("/overview", Overview(d.Features))
		f.Post("/extract-text", ExtractText(d.Features))
		f.Post("/extract", Extract(d.Features))
	}

	if d.Users != nil {
		u := api.Group("/users")
		u.Post("/register", RegisterUser(d.Users))
		u.Post("/login", Login(d.Users))
		u.Get("/", ListUsers(d.Users))
		u.Get("/:id", GetUser(d.Users))
		u.Patch("/:id", UpdateUser(d.Users))
		u.Delete("/:id", DeleteUser(d.Users))
	}

	if d.Files != nil {
		files := api.Group("/files")
		files.Post("/upload", UploadFile(d.Files))
		files.Get("/user/:userId", ListUserFiles(d.Files))
		files.Get("/:id", GetFile(d.Files))
		files.Delete("/:id", DeleteFile(d.Files))
		files.Post("/:id/parse", ParseFile(d.Files))
	}
}

func registerJobs(r fiber.Router, svc service.ContentService[model.JobDescription]) {
	r.Get("/active", ListRecords(svc, map[string]string{"status": "active"}))
	registerCRUD(r, svc)
}

func registerScholarships(r fiber.Router, svc service.ContentService[model.Scholarship]) {
	r.Get("/active", ListRecords(svc, map[string]string{"status": "active"}))
	r.Get("/country/:country", ListByParam(svc, "country", "country"))
	registerCRUD(r, svc)
}

func registerNews(r fiber.Router, svc service.ContentService[model.News]) {
	r.Get("/breaking", BreakingNews(svc))
	r.Get("/category/:category", ListByParam(svc, "category", "category"))
	registerCRUD(r, svc)
}

func registerTechnical(r fiber.Router, svc service.ContentService[model.Technical]) {
	r.Get("/technology/:technology", ListByParam(svc, "technology", "technology"))
	r.Get("/complexity/:level", ListByParam(svc, "level", "complexity"))
	registerCRUD(r, svc)
}

func registerOthers(r fiber.Router, svc service.ContentService[model.Other]) {
	r.Get("/type/:type", ListByParam(svc, "type", "content_type"))
	r.Get("/complexity/:level", ListByParam(svc, "level", "complexity"))
	registerCRUD(r, svc)
}

func registerAdmissions(r fiber.Router, svc service.ContentService[model.Admission]) {
	r.Get("/upcoming-deadlines", ListRecords(svc, map[string]string{"deadline_within_days": "30"}))
	r.Get("/university/:university", ListByParam(svc, "university", "university"))
	r.Get("/degree/:degree", ListByParam(svc, "degree", "degree"))
	registerCRUD(r, svc)
}

// BreakingNews answers {news} with the latest breaking items, five by default.
func BreakingNews(svc service.ContentService[model.News]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := list(c, svc, map[string]string{"is_breaking": "true"}, 5)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"news": res.Results})
	}
}
