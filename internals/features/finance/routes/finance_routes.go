// file: internals/features/finance/routes/finance_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "edupay_backend/internals/features/finance/controller"
)

func FinanceRoutes(api fiber.Router, db *gorm.DB) {
	periods := controller.NewPeriodController(db)
	revenues := controller.NewRevenueController(db)
	exclusions := controller.NewExclusionController(db)
	payments := controller.NewPaymentController(db)

	p := api.Group("/financial-periods")
	p.Get("/", periods.List)
	p.Post("/", periods.Create)
	p.Put("/:id", periods.Update)
	p.Delete("/:id", periods.Delete)

	r := api.Group("/section-revenues")
	r.Get("/", revenues.List)
	r.Post("/", revenues.Upsert)

	e := api.Group("/exclusions")
	e.Get("/:period_id/:stage_id", exclusions.Read)
	e.Post("/:period_id/:stage_id/toggle", exclusions.Toggle)
	e.Put("/:period_id/:stage_id", exclusions.BulkSet)
	e.Delete("/:period_id/:stage_id", exclusions.ClearAll)

	f := api.Group("/financials")
	f.Get("/:period_id/:stage_id", payments.Overview)
	f.Get("/:period_id/:stage_id/libraries-preview", payments.LibrariesPreview)

	api.Post("/calculate-payments/:period_id/:stage_id", payments.Calculate)
	api.Get("/teacher-payments/:period_id", payments.ListByPeriod)
}
