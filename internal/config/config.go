package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config параметры процесса, собранные из окружения
type Config struct {
	HTTPAddr   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string
}

// Load читает .env (если он есть) и собирает конфигурацию
func Load() Config {
	godotenv.Load()
	return Config{
		HTTPAddr:   envOr("HTTP_ADDR", ":9091"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     envOr("DB_HOST", "127.0.0.1"),
		DBPort:     envOr("DB_PORT", "3306"),
		DBName:     envOr("DB_NAME", "dhandho"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewLogger JSON-логгер для структурированных записей
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
	log.SetOutput(os.Stdout)
	return log
}

// OpenDatabase открывает соединение с MySQL через GORM
func (c Config) OpenDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
