package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"progress-service/internal/configs"
	"progress-service/internal/db"
	"progress-service/internal/event"
	"progress-service/internal/handlers"
	"progress-service/internal/repository"
	"progress-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	configs.LoadConfig()
	gin.SetMode(configs.AppConfig.GinMode)

	db.InitMongo(configs.AppConfig.MongoURI)
	database := db.Client.Database(configs.AppConfig.MongoDatabase)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// RabbitMQ event publisher. A nil publisher drops events.
	var publisher *event.EventPublisher
	if configs.AppConfig.RabbitMQURI != "" && configs.AppConfig.RabbitExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(configs.AppConfig.RabbitMQURI, configs.AppConfig.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Attempt lock. Redis when configured, in-process otherwise.
	var locker service.Locker
	if configs.AppConfig.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     configs.AppConfig.RedisAddr,
			Password: configs.AppConfig.RedisPassword,
			DB:       configs.AppConfig.RedisDB,
		})
		locker = repository.NewRedisLockRepository(redisClient)
	} else {
		log.Println("Redis not configured, using in-process attempt locks")
		locker = repository.NewMemoryLockRepository()
	}

	quizRepo := repository.NewQuizRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	answerRepo := repository.NewAnswerRepository(database)
	enrollmentRepo := repository.NewEnrollmentRepository(database)
	lessonRepo := repository.NewLessonProgressRepository(database)
	achievementRepo := repository.NewAchievementRepository(database)

	achievementService := service.NewAchievementService(achievementRepo, lessonRepo, attemptRepo, publisher)
	attemptService := service.NewAttemptService(quizRepo, attemptRepo, answerRepo, achievementService, locker, publisher)
	enrollmentService := service.NewEnrollmentService(courseRepo, enrollmentRepo, lessonRepo, achievementService, publisher)

	attemptHandler := handlers.NewAttemptHandler(attemptService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://evolvia.phrimp.io.vn"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	public := r.Group("/public/progress")
	{
		public.GET("/quiz/:quizId/stats", attemptHandler.GetQuizStats)
		public.GET("/achievements", achievementHandler.ListDefinitions)
	}

	protected := r.Group("/protected/progress")
	protected.Use(requireIdentity())
	{
		protected.POST("/quiz/:quizId/attempt", attemptHandler.StartAttempt)
		protected.GET("/quiz/:quizId/attempts", attemptHandler.ListAttempts)
		protected.GET("/attempt/:id", attemptHandler.GetAttemptStatus)
		protected.POST("/attempt/:id/answer", attemptHandler.SubmitAnswer)
		protected.POST("/attempt/:id/complete", attemptHandler.CompleteAttempt)

		protected.POST("/course/:courseId/enroll", enrollmentHandler.Enroll)
		protected.GET("/course/:courseId/enrollment", enrollmentHandler.GetEnrollment)
		protected.POST("/lesson/:lessonId/complete", enrollmentHandler.SetLessonProgress)
		protected.GET("/enrollments", enrollmentHandler.ListEnrollments)

		protected.GET("/achievements", achievementHandler.ListMine)
		protected.GET("/dashboard", achievementHandler.Dashboard)
	}

	log.Printf("%s listening on :%s", configs.AppConfig.ServiceName, configs.AppConfig.Port)
	r.Run(":" + configs.AppConfig.Port)
}

// requireIdentity rejects requests carrying neither the gateway's X-User-ID
// header nor a bearer token. Handlers resolve the actual user ID.
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" && c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
