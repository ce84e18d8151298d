package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV points at a deployed
// environment that injects them directly.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil {
			// Missing .env is fine outside local development setups.
			if !os.IsNotExist(err) {
				return err
			}
		}
	}

	return nil
}

// EnviornmentVariable holds every setting the process reads from the
// environment.
type EnviornmentVariable struct {
	GO_ENV       string
	PORT         int
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// JWT
	JWT_SECRET        string
	JWT_EXPIRES_HOURS int
	JWT_ISSUER        string
	BCRYPT_ROUNDS     int
	// HTTP
	ALLOWED_ORIGINS   string
	RATE_LIMIT_WINDOW int // minutes
	RATE_LIMIT_MAX    int
	FRONTEND_DIR      string
	// Uploads
	UPLOAD_DIR           string
	UPLOAD_MAX_SIZE      int64
	UPLOAD_ALLOWED_TYPES []string
	// Redis
	REDIS_URL string
}

// Get reads the environment, applying development defaults.
func Get() (*EnviornmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 3000
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	dbSSL := os.Getenv("DB_SSL_MODE")
	if dbSSL == "" {
		dbSSL = "disable"
	}

	jwtExpires, err := strconv.Atoi(os.Getenv("JWT_EXPIRES_HOURS"))
	if err != nil || jwtExpires <= 0 {
		jwtExpires = 7 * 24
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "gmpi-api"
	}

	bcryptRounds, err := strconv.Atoi(os.Getenv("BCRYPT_ROUNDS"))
	if err != nil || bcryptRounds <= 0 {
		bcryptRounds = 12
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:8080"
	}

	rlWindow, err := strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW"))
	if err != nil || rlWindow <= 0 {
		rlWindow = 15
	}

	rlMax, err := strconv.Atoi(os.Getenv("RATE_LIMIT_MAX"))
	if err != nil || rlMax <= 0 {
		rlMax = 100
	}

	frontendDir := os.Getenv("FRONTEND_DIR")
	if frontendDir == "" {
		frontendDir = "./public"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	uploadMaxSize, err := strconv.ParseInt(os.Getenv("UPLOAD_MAX_SIZE"), 10, 64)
	if err != nil || uploadMaxSize <= 0 {
		uploadMaxSize = 5 * 1024 * 1024
	}

	uploadTypes := os.Getenv("UPLOAD_ALLOWED_TYPES")
	if uploadTypes == "" {
		uploadTypes = "image/jpeg,image/png,image/gif,application/pdf,text/plain"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	return &EnviornmentVariable{
		GO_ENV:               os.Getenv("GO_ENV"),
		PORT:                 port,
		DB_USER_NAME:         os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:          os.Getenv("DB_PASSWORD"),
		DB_NAME:              os.Getenv("DB_NAME"),
		DB_HOST:              dbHost,
		DB_PORT:              dbPort,
		DB_SSL_MODE:          dbSSL,
		JWT_SECRET:           os.Getenv("JWT_SECRET"),
		JWT_EXPIRES_HOURS:    jwtExpires,
		JWT_ISSUER:           jwtIssuer,
		BCRYPT_ROUNDS:        bcryptRounds,
		ALLOWED_ORIGINS:      origins,
		RATE_LIMIT_WINDOW:    rlWindow,
		RATE_LIMIT_MAX:       rlMax,
		FRONTEND_DIR:         frontendDir,
		UPLOAD_DIR:           uploadDir,
		UPLOAD_MAX_SIZE:      uploadMaxSize,
		UPLOAD_ALLOWED_TYPES: strings.Split(uploadTypes, ","),
		REDIS_URL:            redisURL,
	}, nil
}
