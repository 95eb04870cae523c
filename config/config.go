package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 服务运行配置，全部来自环境变量
type Config struct {
	Port           string `mapstructure:"port"`
	BaseURL        string `mapstructure:"base_url"`
	DatabaseURL    string `mapstructure:"database_url"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	TrefleAPIKey   string `mapstructure:"trefle_api_key"`
	PerenualAPIKey string `mapstructure:"perenual_api_key"`
}

// Load 读取并校验配置。
// 显式列出允许的环境变量，看得清哪些配置在起作用。
// 数据库和签名密钥启动就要有；两个数据源的 API 密钥按需检查，
// 缺失时对应接口报服务器配置错误，不做静默降级。
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("base_url", "http://localhost:8080")

	v.BindEnv("port", "PORT")
	v.BindEnv("base_url", "BASE_URL")
	v.BindEnv("database_url", "DATABASE_URL")
	v.BindEnv("jwt_secret", "JWT_SECRET")
	v.BindEnv("trefle_api_key", "TREFLE_API_KEY")
	v.BindEnv("perenual_api_key", "PERENUAL_API_KEY")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return &cfg, nil
}
