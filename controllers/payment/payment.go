package paymentController

import (
	"errors"
	"fmt"
	"lms/database"
	"lms/jazzcash"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Controller holds the gateway client and mailer for the payment flow. Both
// are constructed once at startup and never swapped afterwards.
type Controller struct {
	gateway jazzcash.Gateway
	mailer  utils.Mailer
}

func New(gateway jazzcash.Gateway, mailer utils.Mailer) *Controller {
	return &Controller{gateway: gateway, mailer: mailer}
}

// CapturePayment initiates a JazzCash payment request for a course
func (pc *Controller) CapturePayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCapture").(*struct {
		UserID    uint    `json:"userId" validate:"required"`
		CourseID  uint    `json:"courseId" validate:"required"`
		Amount    float64 `json:"amount" validate:"required,gt=0"`
		ReturnURL string  `json:"returnURL" validate:"required,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if JazzCash is initialized
	if !pc.gateway.Initialized() {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "JazzCash is not initialized properly!", nil)
	}

	db := database.Database.Db

	// Fetch user and course
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", reqData.CourseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Prepare payment data. References carry a millisecond timestamp so each
	// capture gets a fresh pair.
	txnTime := time.Now()
	expiry := txnTime.AddDate(0, 0, 1) // 1 day expiry
	paymentData := jazzcash.PaymentData{
		Amount:            fmt.Sprintf("%.0f", reqData.Amount),
		BankID:            "",
		BillReference:     fmt.Sprintf("CRS-%d-%d-%d", reqData.CourseID, reqData.UserID, txnTime.UnixMilli()),
		Description:       "Payment for course " + course.Title,
		Language:          "EN",
		ProductID:         fmt.Sprintf("%d", course.ID),
		ReturnURL:         reqData.ReturnURL,
		TxnCurrency:       "PKR",
		TxnDateTime:       jazzcash.FormatDateTime(txnTime),
		TxnExpiryDateTime: jazzcash.FormatDateTime(expiry),
		TxnRefNo:          fmt.Sprintf("TXN-%d", txnTime.UnixMilli()),
		TxnType:           "SALE",
		Version:           "1.1",
		MobileNumber:      user.Mobile,
		CNIC:              user.CNIC,
	}

	// Create the payment request with the gateway
	paymentRequest, err := pc.gateway.CreateRequest(paymentData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment request!", err.Error())
	}

	// Record the pending transaction for history and expiry sweeps
	transaction := models.PaymentTransaction{
		OrderRef:        uuid.NewString(),
		UserID:          reqData.UserID,
		CourseID:        reqData.CourseID,
		Amount:          reqData.Amount,
		Currency:        "PKR",
		TxnRefNo:        paymentData.TxnRefNo,
		BillReference:   paymentData.BillReference,
		Status:          models.TransactionStatusPending,
		TransactionDate: txnTime,
		ExpiresAt:       &expiry,
	}
	if err := db.Create(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment request created successfully!", paymentRequest)
}

// VerifyPayment asks the gateway for the final status of a transaction and,
// on approval, brings the user's course progress up to date. Enrollment stays
// a separate call; see EnrollCourses.
func (pc *Controller) VerifyPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerify").(*struct {
		TxnRefNo string `json:"txnRefNo" validate:"required"`
		UserID   uint   `json:"userId" validate:"required"`
		CourseID uint   `json:"courseId" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if JazzCash is initialized
	if !pc.gateway.Initialized() {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "JazzCash is not initialized properly!", nil)
	}

	raw, err := pc.gateway.Inquire(reqData.TxnRefNo)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payment verification failed!", err.Error())
	}

	response, err := jazzcash.ParseInquiryResponse(raw)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to parse response from JazzCash!", err.Error())
	}

	switch response.Status() {
	case jazzcash.StatusApproved:
		db := database.Database.Db

		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		var course models.Course
		if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}

		// Find-or-create course progress. Completed videos from the response
		// are appended as-is; duplicates are not removed.
		var progress models.CourseProgress
		err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", reqData.CourseID, reqData.UserID, false).First(&progress).Error
		if err == nil {
			progress.CompletedVideos = append(progress.CompletedVideos, response.CompletedVideos...)
			if err := db.Save(&progress).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
			}
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.CourseProgress{
				CourseID:        reqData.CourseID,
				UserID:          reqData.UserID,
				CompletedVideos: datatypes.NewJSONSlice(response.CompletedVideos),
			}
			if err := db.Create(&progress).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course progress!", nil)
			}
		} else {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress!", nil)
		}

		// Best effort: settle the pending transaction record if one exists
		db.Model(&models.PaymentTransaction{}).
			Where("txn_ref_no = ? AND status = ? AND is_deleted = ?", reqData.TxnRefNo, models.TransactionStatusPending, false).
			Updates(map[string]interface{}{
				"status":               models.TransactionStatusCompleted,
				"gateway_response_raw": string(raw),
			})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified and course progress updated successfully!", response)

	case jazzcash.StatusDeclined:
		message := response.ResponseMessage
		if message == "" {
			message = "Payment verification failed!"
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, message, response)

	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unrecognized response code: "+response.ResponseCode, response)
	}
}

// SendPaymentSuccessEmail mails a payment confirmation to the logged-in user.
// Amount arrives in minor units.
func (pc *Controller) SendPaymentSuccessEmail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSuccessEmail").(*struct {
		OrderID   string  `json:"orderId" validate:"required"`
		PaymentID string  `json:"paymentId" validate:"required"`
		Amount    float64 `json:"amount" validate:"required,gt=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please provide all the fields!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	subject, body := utils.PaymentSuccessEmail(user.Name, reqData.Amount/100, reqData.OrderID, reqData.PaymentID)
	if err := pc.mailer.Send([]string{user.Email}, subject, body); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not send email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email sent successfully!", nil)
}

// GetTransactions returns the logged-in user's payment transaction history
func (pc *Controller) GetTransactions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTransactionList").(*struct {
		Page  *int `json:"page" query:"page"`
		Limit *int `json:"limit" query:"limit"`
	})

	// Set default pagination
	page := 1
	limit := 10
	if ok {
		if reqData.Page != nil {
			page = *reqData.Page
		}
		if reqData.Limit != nil {
			limit = *reqData.Limit
		}
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.PaymentTransaction{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	var transactions []models.PaymentTransaction
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	response := map[string]interface{}{
		"transactions": transactions,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", response)
}
