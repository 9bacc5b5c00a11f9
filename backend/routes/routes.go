package routes

import (
	"qizz/backend/config"
	"qizz/backend/controllers"
	"qizz/backend/middleware"
	"qizz/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, ai *services.AIService) {
	pdfService := services.NewPDFService(cfg.UploadDir, cfg.MaxUploadBytes)
	progressService := services.NewProgressService(db)
	roadmapService := services.NewRoadmapService(db)
	certificateService := services.NewCertificateService(cfg.CertificatesDir)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, ai, pdfService, progressService)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Post("/create-from-pdf", coursesController.CreateFromPDF)
	courses.Get("/", coursesController.GetUserCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/generate-modules", coursesController.GenerateModules)
	courses.Post("/:id/regenerate", coursesController.Regenerate)
	courses.Get("/:id/modules/:moduleId", coursesController.GetModule)
	courses.Put("/:id/progress", coursesController.UpdateProgress)
	courses.Get("/:id/related-roadmaps", coursesController.RelatedRoadmaps)
	courses.Delete("/:id", coursesController.DeleteCourse)

	// Certificate routes
	certificateController := controllers.NewCertificateController(db, cfg, certificateService)
	certificate := app.Group("/api/certificate", authMiddleware)
	certificate.Post("/generate/:courseId", certificateController.Generate)
	certificate.Get("/my-certificates", certificateController.MyCertificates)
	certificate.Get("/download/:courseId", certificateController.Download)

	// Quiz routes
	quizController := controllers.NewQuizController(db, cfg, ai, progressService)
	quiz := app.Group("/api/quiz", authMiddleware)
	quiz.Post("/:courseId/modules/:moduleId/generate", quizController.GenerateQuiz)
	quiz.Get("/:courseId/modules/:moduleId", quizController.GetQuiz)
	quiz.Post("/:courseId/modules/:moduleId/submit", quizController.SubmitQuiz)
	quiz.Post("/:courseId/final-exam/generate", quizController.GenerateFinalExam)
	quiz.Post("/:courseId/final-exam/submit", quizController.SubmitFinalExam)
	quiz.Get("/:courseId/completion-status", quizController.CompletionStatus)
	quiz.Post("/:courseId/auto-certificate", certificateController.Generate)

	// Roadmap routes; the catalog itself is public
	roadmapController := controllers.NewRoadmapController(db, cfg, roadmapService)
	app.Get("/api/roadmap/popular", roadmapController.Popular)
	app.Get("/api/roadmap/:id", roadmapController.Detail)
	app.Get("/api/roadmap/:id/progress", authMiddleware, roadmapController.GetProgress)
	app.Put("/api/roadmap/:id/progress", authMiddleware, roadmapController.UpdateProgress)
	app.Post("/api/roadmap/:id/follow", authMiddleware, roadmapController.Follow)
	app.Delete("/api/roadmap/:id/follow", authMiddleware, roadmapController.Unfollow)

	// Chatbot routes
	chatbotController := controllers.NewChatbotController(db, cfg, ai)
	chatbot := app.Group("/api/chatbot", authMiddleware)
	chatbot.Post("/chat", chatbotController.Chat)
	chatbot.Get("/suggested-questions/:courseId", chatbotController.SuggestedQuestions)
	chatbot.Get("/status", chatbotController.Status)
}
