package paymentValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// validationMessages maps validator tags to user-facing messages
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required!"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param() + "!"
	case "url":
		return fe.Field() + " must be a valid URL!"
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " items!"
	default:
		return fe.Field() + " is invalid!"
	}
}

func structErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = validationMessage(fe)
		}
	} else {
		errors["body"] = "Invalid request data!"
	}
	return errors
}

// CapturePayment validates the capture-payment request body
func CapturePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID    uint    `json:"userId" validate:"required"`
			CourseID  uint    `json:"courseId" validate:"required"`
			Amount    float64 `json:"amount" validate:"required,gt=0"`
			ReturnURL string  `json:"returnURL" validate:"required,url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCapture", reqData)
		return c.Next()
	}
}

// VerifyPayment validates the verify-payment request body
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TxnRefNo string `json:"txnRefNo" validate:"required"`
			UserID   uint   `json:"userId" validate:"required"`
			CourseID uint   `json:"courseId" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}

// SuccessEmail validates the payment-success email request body
func SuccessEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID   string  `json:"orderId" validate:"required"`
			PaymentID string  `json:"paymentId" validate:"required"`
			Amount    float64 `json:"amount" validate:"required,gt=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedSuccessEmail", reqData)
		return c.Next()
	}
}

// Enroll validates the enroll request body
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Courses []uint `json:"courses" validate:"required,min=1"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// TransactionList validates pagination query parameters
func TransactionList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page" query:"page"`
			Limit *int `json:"limit" query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransactionList", reqData)
		return c.Next()
	}
}
