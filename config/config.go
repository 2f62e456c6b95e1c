package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting the application reads from the environment.
type Config struct {
	ServerPort         string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	LogLevel           string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	FrontendURL        string
	BackendURL         string
	StorageBackend     string // local, s3 or gcs
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string
	LocalStoragePath   string
	MaxUploadSizeMB    int
	ReconcileSchedule  string // cron expression for the ledger reconciliation job
	Debug              bool
}

// AppConfig is the global configuration instance.
var AppConfig Config

// Init loads the .env file and populates AppConfig from the environment.
func Init() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	AppConfig = Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBHost:             getEnv("DB_HOST", ""),
		DBPort:             getEnv("DB_PORT", ""),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageBackend:     getEnv("STORAGE_BACKEND", "local"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		MaxUploadSizeMB:    maxUploadSizeMB(),
		ReconcileSchedule:  getEnv("LEDGER_RECONCILE_SCHEDULE", "0 3 * * *"),
		Debug:              getEnvAsBool("DEBUG", false),
	}

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("running in debug mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("configuration loaded, database at %s:%s", AppConfig.DBHost, AppConfig.DBPort)
}

// maxUploadSizeMB resolves the proof upload limit with the same fallback chain
// the donation form uses: public variant, then server variant, then 20 MB.
func maxUploadSizeMB() int {
	if v, err := strconv.Atoi(os.Getenv("PUBLIC_MAX_UPLOAD_SIZE_MB")); err == nil && v > 0 {
		return v
	}
	if v, err := strconv.Atoi(os.Getenv("MAX_UPLOAD_SIZE_MB")); err == nil && v > 0 {
		return v
	}
	return 20
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBPort == "" || AppConfig.DBUser == "" || AppConfig.DBPassword == "" || AppConfig.DBName == "" {
		log.Fatal("error: database configuration is incomplete")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("error: JWT secret is not set")
	}
}
