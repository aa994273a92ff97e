// file: internals/features/libraries/routes/library_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "edupay_backend/internals/features/libraries/controller"
)

func LibraryRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := &controller.LibraryController{DB: db}

	libs := api.Group("/libraries")
	libs.Get("/", ctrl.List)
	libs.Post("/", ctrl.Upsert)
	libs.Get("/:id/monthly-stats", ctrl.MonthlyStats)
	libs.Post("/:id/monthly-stats", ctrl.UpsertMonthlyStat)
}
