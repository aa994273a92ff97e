// file: internals/features/reconciliation/routes/reconciliation_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "edupay_backend/internals/features/reconciliation/controller"
)

func ReconciliationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReconciliationController(db)

	g := api.Group("/reconciliation")
	g.Get("/", ctrl.List)
	g.Post("/load", ctrl.Load)
	g.Post("/save-selected", ctrl.SaveSelected)
	g.Post("/apply-sections", ctrl.ApplySections)
	g.Post("/defer", ctrl.Defer)
	// literal routes before :library_id so they never parse as an id
	g.Patch("/:library_id", ctrl.Edit)
	g.Post("/:library_id/save", ctrl.SaveOne)
	g.Delete("/:library_id", ctrl.Remove)
}
