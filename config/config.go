package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	MoMo    MoMoConfig
	Storage StorageConfig
}

type AppConfig struct {
	Port       string
	Env        string
	CORSOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
	Debug       bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// MoMoConfig holds the mobile-money collection API credentials
type MoMoConfig struct {
	BaseURL         string
	APIUser         string
	APIKey          string
	SubscriptionKey string
	TargetEnv       string
	Currency        string
	Timeout         time.Duration
}

// StorageConfig selects where uploaded prescription files are written
type StorageConfig struct {
	Driver        string // "local" or "s3"
	LocalDir      string
	S3Bucket      string
	S3Region      string
	MaxUploadSize int64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	// .env is optional; plain environment variables are enough in containers
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 3 * 24 * time.Hour
	}

	momoTimeout, err := time.ParseDuration(viper.GetString("MOMO_TIMEOUT"))
	if err != nil {
		momoTimeout = 15 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:       viper.GetString("APP_PORT"),
			Env:        viper.GetString("APP_ENV"),
			CORSOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
			Debug:       viper.GetBool("DB_DEBUG"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		MoMo: MoMoConfig{
			BaseURL:         viper.GetString("MOMO_BASE_URL"),
			APIUser:         viper.GetString("MOMO_API_USER"),
			APIKey:          viper.GetString("MOMO_API_KEY"),
			SubscriptionKey: viper.GetString("MOMO_SUBSCRIPTION_KEY"),
			TargetEnv:       viper.GetString("MOMO_TARGET_ENV"),
			Currency:        viper.GetString("MOMO_CURRENCY"),
			Timeout:         momoTimeout,
		},
		Storage: StorageConfig{
			Driver:        viper.GetString("STORAGE_DRIVER"),
			LocalDir:      viper.GetString("STORAGE_LOCAL_DIR"),
			S3Bucket:      viper.GetString("STORAGE_S3_BUCKET"),
			S3Region:      viper.GetString("AWS_REGION"),
			MaxUploadSize: viper.GetInt64("UPLOAD_MAX_BYTES"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("MOMO_BASE_URL", "https://sandbox.momodeveloper.mtn.com")
	viper.SetDefault("MOMO_TARGET_ENV", "sandbox")
	viper.SetDefault("MOMO_CURRENCY", "RWF")
	viper.SetDefault("STORAGE_DRIVER", "local")
	viper.SetDefault("STORAGE_LOCAL_DIR", "uploads")
	viper.SetDefault("AWS_REGION", "eu-central-1")
	viper.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
}
