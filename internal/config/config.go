package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB          DBConfig
	Server      ServerConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Logger      LoggerConfig
	Generator   GeneratorConfig
	Predictor   PredictorConfig
	Quiz        QuizConfig
	Quest       QuestConfig
	Leaderboard LeaderboardConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Driver   string // "oracle" (go-ora) or "godror"
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// GeneratorConfig points at the external math-problem generator.
type GeneratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// WeaknessSignalConfig is one configured fallback signal.
type WeaknessSignalConfig struct {
	Topic       string  `mapstructure:"topic"`
	Probability float64 `mapstructure:"probability"`
	ActionLevel int     `mapstructure:"action_level"`
}

type PredictorConfig struct {
	Source    string // "llm", "static" or "none"
	ServerURL string
	Model     string
	Timeout   time.Duration
	Fallback  []WeaknessSignalConfig
}

type QuizConfig struct {
	MaxQuestions   int
	CandidateBatch int
}

type QuestConfig struct {
	GenerateRateLimit int
}

type LeaderboardConfig struct {
	RefreshConcurrency int
	CacheTTL           time.Duration
	DefaultLimit       int
}

func setDefaults() {
	viper.SetDefault("db.driver", "oracle")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("jwt.access_token_ttl", "30m")
	viper.SetDefault("jwt.refresh_token_ttl", "168h")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("generator.timeout", "5s")
	viper.SetDefault("predictor.source", "none")
	viper.SetDefault("predictor.model", "qwen3:0.6b")
	viper.SetDefault("predictor.timeout", "10s")
	viper.SetDefault("quiz.max_questions", 50)
	viper.SetDefault("quiz.candidate_batch", 10)
	viper.SetDefault("quest.generate_rate_limit", 5)
	viper.SetDefault("leaderboard.refresh_concurrency", 4)
	viper.SetDefault("leaderboard.cache_ttl", "10m")
	viper.SetDefault("leaderboard.default_limit", 100)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Driver:   viper.GetString("db.driver"),
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Generator: GeneratorConfig{
			BaseURL: viper.GetString("generator.base_url"),
			Timeout: viper.GetDuration("generator.timeout"),
		},
		Predictor: PredictorConfig{
			Source:    viper.GetString("predictor.source"),
			ServerURL: viper.GetString("predictor.server_url"),
			Model:     viper.GetString("predictor.model"),
			Timeout:   viper.GetDuration("predictor.timeout"),
		},
		Quiz: QuizConfig{
			MaxQuestions:   viper.GetInt("quiz.max_questions"),
			CandidateBatch: viper.GetInt("quiz.candidate_batch"),
		},
		Quest: QuestConfig{
			GenerateRateLimit: viper.GetInt("quest.generate_rate_limit"),
		},
		Leaderboard: LeaderboardConfig{
			RefreshConcurrency: viper.GetInt("leaderboard.refresh_concurrency"),
			CacheTTL:           viper.GetDuration("leaderboard.cache_ttl"),
			DefaultLimit:       viper.GetInt("leaderboard.default_limit"),
		},
	}

	if err := viper.UnmarshalKey("predictor.fallback", &config.Predictor.Fallback); err != nil {
		return nil, fmt.Errorf("failed to parse predictor.fallback: %w", err)
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if generatorURL := os.Getenv("GENERATOR_BASE_URL"); generatorURL != "" {
		config.Generator.BaseURL = generatorURL
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.Predictor.ServerURL = llmServer
	}

	return config, nil
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "godror" {
		return fmt.Sprintf(`user="%s" password="%s" connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
