package paymentRoutes

import (
	paymentController "lms/controllers/payment"
	"lms/middleware"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up all payment routes
func SetupPaymentRoutes(app *fiber.App, pc *paymentController.Controller) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/capture", middleware.JWTMiddleware, paymentValidator.CapturePayment(), pc.CapturePayment)
	paymentGroup.Post("/verify", middleware.JWTMiddleware, paymentValidator.VerifyPayment(), pc.VerifyPayment)
	paymentGroup.Post("/success-email", middleware.JWTMiddleware, paymentValidator.SuccessEmail(), pc.SendPaymentSuccessEmail)
	paymentGroup.Post("/enroll", middleware.JWTMiddleware, paymentValidator.Enroll(), pc.EnrollCourses)
	paymentGroup.Get("/transactions", middleware.JWTMiddleware, paymentValidator.TransactionList(), pc.GetTransactions)
}
