package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/controllers"
	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	labController *controllers.LabController,
	assignmentController *controllers.AssignmentController,
	facultyController *controllers.FacultyController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Any authenticated user can change their own password
		authenticated.PUT("/auth/password", authController.UpdatePassword)

		// Admin routes - user management, lab catalog, assignments
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/addUser", userController.AddUser)
			admin.GET("/users", userController.GetUsers)
			admin.GET("/users/:id", userController.GetUser)
			admin.PUT("/users/:id", userController.UpdateUser)
			admin.DELETE("/users/:id", userController.DeleteUser)
			admin.POST("/bulk-import-users", userController.ImportUsers)
			admin.POST("/incrementSemester", userController.IncrementSemester)

			admin.POST("/addLab", labController.AddLab)
			admin.GET("/labs", labController.GetLabs)
			admin.GET("/labs/:id", labController.GetLab)
			admin.PUT("/labs/:id", labController.UpdateLab)
			admin.DELETE("/labs/:id", labController.DeleteLab)
			admin.POST("/bulk-import-labs", labController.ImportLabs)

			admin.POST("/assignLab", assignmentController.CreateAssignment)
			admin.GET("/assignments", assignmentController.GetAssignments)
			admin.GET("/assignments/:id/batches", assignmentController.GetAssignmentBatches)
			admin.DELETE("/assignments/:id", assignmentController.DeleteAssignment)
			admin.POST("/generateBatches", assignmentController.GenerateBatches)
			admin.PUT("/batches/:id/students", assignmentController.UpdateBatchStudents)
		}

		// Faculty routes - own batches and mark entry
		faculty := authenticated.Group("/faculty")
		faculty.Use(authMiddleware.RoleRequired(models.RoleFaculty))
		{
			faculty.GET("/batches", facultyController.GetMyBatches)
			faculty.GET("/batches/:id/students", facultyController.GetBatchStudents)
			faculty.GET("/batches/:id/marks", facultyController.GetMarksHistory)
			faculty.POST("/batches/enter-marks", facultyController.EnterMarks)
		}

		// Student routes - own marks and profile views
		student := authenticated.Group("/student")
		student.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			student.GET("/me/marks", studentController.GetMyMarks)
			student.GET("/me/profile", studentController.GetMyProfile)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
