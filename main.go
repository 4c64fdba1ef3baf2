package main

import (
	"lms/config"
	authController "lms/controllers/auth"
	paymentController "lms/controllers/payment"
	"lms/database"
	"lms/jazzcash"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	paymentRoutes "lms/routers/paymentRoutes"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// The gateway client is built once and passed to the payment controller
	gateway := jazzcash.New(jazzcash.Config{
		MerchantID:  config.AppConfig.JazzCashMerchantID,
		Password:    config.AppConfig.JazzCashPassword,
		HashKey:     config.AppConfig.JazzCashHashKey,
		Environment: config.AppConfig.JazzCashEnvironment,
	})
	if !gateway.Initialized() {
		log.Println("Warning: JazzCash credentials are incomplete. Payment endpoints will report a configuration error.")
	}

	mailer := utils.NewMailer()
	authController.Mailer = mailer

	utils.InitializePaymentScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app, paymentController.New(gateway, mailer))

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
