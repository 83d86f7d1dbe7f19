package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rizalfh/paylane/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

type GatewayConfig struct {
	SecretKey string
	BaseURL   string
}

func LoadGatewayConfig() (*GatewayConfig, error) {
	cfg := &GatewayConfig{
		SecretKey: os.Getenv("GATEWAY_SECRET_KEY"),
		BaseURL:   os.Getenv("GATEWAY_BASE_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.paygate.co"
	}
	return cfg, nil
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

func LoadSMTPConfig() (*SMTPConfig, error) {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Payment{}, &models.Refund{}, &models.Staff{}, &models.AuditLog{})
	if err != nil {
		return nil, err
	}

	seedAdmin(db)

	return db, nil
}

func seedAdmin(db *gorm.DB) {
	email := strings.ToLower(os.Getenv("SEED_ADMIN_EMAIL"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.Staff
	if result := db.Where("email = ?", email).First(&existing); result.Error == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	db.Create(&models.Staff{
		Email:    email,
		Password: string(hashed),
		Role:     models.StaffRoleAdmin,
	})
}
