package config

import (
	"os"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type Config struct {
	Port                string
	PostgresURI         string
	CronSecret          string
	AllowedOrigin       string
	PostsDir            string
	DefaultTimezone     string
	ScheduleDefaultTime string
	BooksCacheTTL       time.Duration
	PublishCronSpec     string
	R2                  R2
}

func LoadConfig() *Config {
	return &Config{
		Port:                getEnv("PORT", "8788"),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		CronSecret:          getEnv("CRON_SECRET", ""),
		AllowedOrigin:       getEnv("ALLOWED_ORIGIN", "*"),
		PostsDir:            getEnv("POSTS_DIR", "content/posts"),
		DefaultTimezone:     getEnv("DEFAULT_TIMEZONE", "Europe/Madrid"),
		ScheduleDefaultTime: getEnv("SCHEDULE_DEFAULT_TIME", "07:00:00"),
		BooksCacheTTL:       getDuration("BOOKS_CACHE_TTL", 10*time.Minute),
		PublishCronSpec:     getEnv("PUBLISH_CRON_SPEC", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
