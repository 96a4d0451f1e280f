package service

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"semantiapi/internal/model"
	"semantiapi/internal/repository/mongodb"
)

// Services bundles the record services backed by one Mongo database.
type Services struct {
	Jobs         ContentService[model.JobDescription]
	Scholarships ContentService[model.Scholarship]
	Blogs        ContentService[model.Blog]
	News         ContentService[model.News]
	Technical    ContentService[model.Technical]
	Others       ContentService[model.Other]
	Admissions   ContentService[model.Admission]
	Pages        ContentService[model.PageContent]
	Users        ContentService[model.User]
}

// NewServices wires a ContentService for every collection in db.
func NewServices(db *mongo.Database, v *validator.Validate) *Services {
	return &Services{
		Jobs: NewContentService[model.JobDescription](
			mongodb.New[model.JobDescription](db.Collection(model.CollectionJobs)), v, "Job description", JobFilters),
		Scholarships: NewContentService[model.Scholarship](
			mongodb.New[model.Scholarship](db.Collection(model.CollectionScholarships)), v, "Scholarship", ScholarshipFilters),
		Blogs: NewContentService[model.Blog](
			mongodb.New[model.Blog](db.Collection(model.CollectionBlogs)), v, "Blog", BlogFilters),
		News: NewContentService[model.News](
			mongodb.New[model.News](db.Collection(model.CollectionNews)), v, "News", NewsFilters),
		Technical: NewContentService[model.Technical](
			mongodb.New[model.Technical](db.Collection(model.CollectionTechnical)), v, "Technical content", TechnicalFilters),
		Others: NewContentService[model.Other](
			mongodb.New[model.Other](db.Collection(model.CollectionOthers)), v, "Content", OtherFilters),
		Admissions: NewContentService[model.Admission](
			mongodb.New[model.Admission](db.Collection(model.CollectionAdmissions)), v, "Admission", AdmissionFilters),
		Pages: NewContentService[model.PageContent](
			mongodb.New[model.PageContent](db.Collection(model.CollectionPageContents)), v, "Content", nil),
		Users: NewContentService[model.User](
			mongodb.New[model.User](db.Collection(model.CollectionUsers)), v, "User", nil),
	}
}
