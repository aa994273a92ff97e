// file: internals/features/taxonomy/routes/taxonomy_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "edupay_backend/internals/features/taxonomy/controller"
)

func TaxonomyRoutes(api fiber.Router, db *gorm.DB) {
	stageCtrl := &controller.StageController{DB: db}
	sectionCtrl := &controller.SectionController{DB: db}
	subjectCtrl := &controller.SubjectController{DB: db}

	stages := api.Group("/stages")
	stages.Get("/", stageCtrl.List)
	stages.Post("/", stageCtrl.Create)
	stages.Put("/:id", stageCtrl.Update)
	stages.Delete("/:id", stageCtrl.Delete)

	sections := api.Group("/sections")
	sections.Get("/", sectionCtrl.List)
	sections.Post("/", sectionCtrl.Create)
	sections.Delete("/:id", sectionCtrl.Delete)

	subjects := api.Group("/subjects")
	subjects.Get("/", subjectCtrl.List)
	subjects.Post("/", subjectCtrl.Create)
	subjects.Delete("/:id", subjectCtrl.Delete)
}
