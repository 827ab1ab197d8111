// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

type DbConfig struct {
	Host     string // empty disables the submission store
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type EngineConfig struct {
	JavacPath      string
	JavaPath       string
	WorkDir        string
	CompileTimeout time.Duration
	ExecuteTimeout time.Duration
}

type WorkerConfig struct {
	Count     int
	QueueSize int
}

type LLMConfig struct {
	Enabled bool
	BaseURL string
	Model   string
	APIKey  string
}

type Config struct {
	Server ServerConfig
	Db     DbConfig
	Engine EngineConfig
	Worker WorkerConfig
	LLM    LLMConfig
}

func LoadConfig() (*Config, error) {
	conf := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  15,
			WriteTimeout: 60,
			IdleTimeout:  120,
		},
		Db: DbConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     5432,
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "java_tutor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Engine: EngineConfig{
			JavacPath:      getEnv("JAVAC_PATH", "javac"),
			JavaPath:       getEnv("JAVA_PATH", "java"),
			WorkDir:        os.Getenv("ENGINE_WORK_DIR"),
			CompileTimeout: 10 * time.Second,
			ExecuteTimeout: 5 * time.Second,
		},
		Worker: WorkerConfig{
			Count:     5,
			QueueSize: 100,
		},
		LLM: LLMConfig{
			Enabled: getEnv("LLM_ENABLED", "false") == "true",
			BaseURL: getEnv("LLM_BASE_URL", "http://localhost:1234/v1"),
			Model:   getEnv("LLM_MODEL", "qwen-coder"),
			APIKey:  getEnv("LLM_API_KEY", "lm-studio"),
		},
	}

	var err error
	if conf.Server.ReadTimeout, err = getEnvInt("READ_TIMEOUT", conf.Server.ReadTimeout); err != nil {
		return nil, err
	}
	if conf.Server.WriteTimeout, err = getEnvInt("WRITE_TIMEOUT", conf.Server.WriteTimeout); err != nil {
		return nil, err
	}
	if conf.Server.IdleTimeout, err = getEnvInt("IDLE_TIMEOUT", conf.Server.IdleTimeout); err != nil {
		return nil, err
	}
	if conf.Db.Port, err = getEnvInt("DB_PORT", conf.Db.Port); err != nil {
		return nil, err
	}
	if conf.Worker.Count, err = getEnvInt("WORKER_COUNT", conf.Worker.Count); err != nil {
		return nil, err
	}
	if conf.Worker.Count < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	if conf.Worker.QueueSize, err = getEnvInt("QUEUE_SIZE", conf.Worker.QueueSize); err != nil {
		return nil, err
	}
	if conf.Engine.CompileTimeout, err = getEnvDuration("COMPILE_TIMEOUT", conf.Engine.CompileTimeout); err != nil {
		return nil, err
	}
	if conf.Engine.ExecuteTimeout, err = getEnvDuration("EXECUTE_TIMEOUT", conf.Engine.ExecuteTimeout); err != nil {
		return nil, err
	}

	return conf, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
