package paymentController

import (
	"errors"
	"fmt"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrCourseNotFound is returned when an enrollment targets a course that does
// not exist or is not active.
var ErrCourseNotFound = errors.New("course not found")

// EnrollStudents enrolls a user into each course, creates an empty progress
// record per course, and sends a confirmation email. Courses are processed
// sequentially; the first failure aborts the loop and courses enrolled
// earlier stay enrolled. There is no cross-course rollback.
func EnrollStudents(db *gorm.DB, mailer utils.Mailer, courseIDs []uint, userID uint) error {
	if len(courseIDs) == 0 || userID == 0 {
		return errors.New("please provide data for courses or userId")
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return errors.New("user not found")
	}

	for _, courseID := range courseIDs {
		if err := enrollOne(db, mailer, courseID, user); err != nil {
			return fmt.Errorf("course %d: %w", courseID, err)
		}
	}

	return nil
}

// enrollOne performs the three database writes for a single course inside one
// transaction, then sends the confirmation email. An email failure aborts the
// caller's loop but does not undo this course's enrollment.
func enrollOne(db *gorm.DB, mailer utils.Mailer, courseID uint, user models.User) error {
	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return ErrCourseNotFound
	}

	tx := db.Begin()

	enrollment := models.Enrollment{
		UserID:   user.ID,
		CourseID: courseID,
		Status:   "ENROLLED",
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create enrollment: %v", err)
	}

	progress := models.CourseProgress{
		CourseID: courseID,
		UserID:   user.ID,
	}
	if err := tx.Create(&progress).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create course progress: %v", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit enrollment: %v", err)
	}

	subject, body := utils.CourseEnrollmentEmail(course.Title, user.Name)
	if err := mailer.Send([]string{user.Email}, subject, body); err != nil {
		return fmt.Errorf("failed to send enrollment email: %v", err)
	}

	return nil
}

// EnrollCourses enrolls the logged-in user into the given courses. The
// checkout flow calls this after a successful verify; verify itself does not
// enroll.
func (pc *Controller) EnrollCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnroll").(*struct {
		Courses []uint `json:"courses" validate:"required,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please provide data for courses or userId!", nil)
	}

	if err := EnrollStudents(database.Database.Db, pc.mailer, reqData.Courses, userID); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in courses successfully!", nil)
}
