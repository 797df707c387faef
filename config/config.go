package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Gemini   Gemini
	Quiz     Quiz
	Claim    Claim
	Redis    Redis
	Auth     Auth
	Log      Log
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type Gemini struct {
	APIKey string
	Model  string
}

type Quiz struct {
	BatchSize int
}

type Claim struct {
	Backend string // database or redis
	TTL     time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Auth struct {
	JWTSecret string
}

type Log struct {
	Level  string
	Format string
}

const (
	ClaimBackendDatabase = "database"
	ClaimBackendRedis    = "redis"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "studydeck")
	v.SetDefault("DATABASE_SQLITE_PATH", "studydeck.db")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("QUIZ_BATCH_SIZE", 20)
	v.SetDefault("CLAIM_BACKEND", ClaimBackendDatabase)
	v.SetDefault("CLAIM_TTL", "10m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	config := fromViper(v)

	// Never log the whole struct, it carries secrets.
	log.Info().
		Str("port", config.Server.Port).
		Str("dbDriver", config.Database.Driver).
		Str("geminiModel", config.Gemini.Model).
		Bool("geminiConfigured", config.Gemini.APIKey != "").
		Int("quizBatchSize", config.Quiz.BatchSize).
		Str("claimBackend", config.Claim.Backend).
		Bool("authEnabled", config.Auth.JWTSecret != "").
		Msg("Config loaded")
	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.GinMode = v.GetString("GIN_MODE")

	config.Database.Driver = v.GetString("DATABASE_DRIVER")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SQLitePath = v.GetString("DATABASE_SQLITE_PATH")

	config.Gemini.APIKey = v.GetString("GEMINI_API_KEY")
	config.Gemini.Model = v.GetString("GEMINI_MODEL")

	config.Quiz.BatchSize = v.GetInt("QUIZ_BATCH_SIZE")
	if config.Quiz.BatchSize <= 0 {
		log.Warn().Int("quizBatchSize", config.Quiz.BatchSize).Msg("QUIZ_BATCH_SIZE must be positive, using 20")
		config.Quiz.BatchSize = 20
	}

	config.Claim.Backend = v.GetString("CLAIM_BACKEND")
	config.Claim.TTL = v.GetDuration("CLAIM_TTL")

	config.Redis.Addr = v.GetString("REDIS_ADDR")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")

	config.Auth.JWTSecret = v.GetString("AUTH_JWT_SECRET")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Format = v.GetString("LOG_FORMAT")

	return &config
}
