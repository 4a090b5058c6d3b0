package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	MongoURI       string
	MongoDatabase  string
	RabbitMQURI    string
	RabbitExchange string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	ServiceName    string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	AppConfig = &Config{
		Port:           getEnvOrDefault("PORT", "6667"),
		GinMode:        getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGO_DATABASE", "progress_service"),
		RabbitMQURI:    os.Getenv("RABBITMQ_URI"),
		RabbitExchange: os.Getenv("RABBITMQ_EXCHANGE"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PWD"),
		RedisDB:        redisDB,
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "your-jwt-secret-key"),
		ServiceName:    getEnvOrDefault("SERVICE_NAME", "progress-service"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
