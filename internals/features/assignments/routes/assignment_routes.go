// file: internals/features/assignments/routes/assignment_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "edupay_backend/internals/features/assignments/controller"
)

func AssignmentRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAssignmentController(db)
	autoMatch := controller.NewAutoMatchController(db)

	g := api.Group("/teacher-assignments")
	g.Get("/", ctrl.List)
	g.Get("/grouped", ctrl.ListGrouped)
	g.Post("/", ctrl.Create)
	g.Post("/auto-match", autoMatch.Run)
	// bulk routes before :id so "bulk" never parses as an id
	g.Patch("/bulk", ctrl.BulkUpdate)
	g.Delete("/bulk", ctrl.BulkDelete)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
