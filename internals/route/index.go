// file: internals/route/index.go
package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentRoutes "edupay_backend/internals/features/assignments/routes"
	financeRoutes "edupay_backend/internals/features/finance/routes"
	libraryRoutes "edupay_backend/internals/features/libraries/routes"
	reconciliationRoutes "edupay_backend/internals/features/reconciliation/routes"
	taxonomyRoutes "edupay_backend/internals/features/taxonomy/routes"
	"edupay_backend/internals/middlewares"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	log.Println("[INFO] Mounting taxonomy routes")
	taxonomyRoutes.TaxonomyRoutes(api, db)

	log.Println("[INFO] Mounting library routes")
	libraryRoutes.LibraryRoutes(api, db)

	log.Println("[INFO] Mounting assignment routes")
	assignmentRoutes.AssignmentRoutes(api, db)

	log.Println("[INFO] Mounting reconciliation routes")
	reconciliationRoutes.ReconciliationRoutes(api, db)

	log.Println("[INFO] Mounting finance routes")
	api.Use("/calculate-payments", middlewares.CalculateRateLimiter())
	financeRoutes.FinanceRoutes(api, db)
}
