package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port             string `mapstructure:"PORT"`
	ServiceName      string `mapstructure:"SERVICE_NAME"`
	GRPCPort         string `mapstructure:"GRPC_PORT"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	PostgresUsername string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	AWSEndpoint      string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket        string `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion string `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey     string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey     string `mapstructure:"AWS_SECRET_KEY"`

	// Background removal inference endpoint.
	BgRemovalURL        string `mapstructure:"BG_REMOVAL_URL"`
	BgRemovalAPIKey     string `mapstructure:"BG_REMOVAL_API_KEY"`
	BgRemovalTimeoutSec int    `mapstructure:"BG_REMOVAL_TIMEOUT_SEC"`

	// Outfit generation. OutfitGenerator selects the backend:
	// "gemini" calls the generative image API, "placeholder" renders
	// a deterministic PNG locally.
	OutfitGenerator  string `mapstructure:"OUTFIT_GENERATOR"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiImageModel string `mapstructure:"GEMINI_IMAGE_MODEL"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("AWS_ENDPOINT")
	_ = viper.BindEnv("AWS_BUCKET")
	_ = viper.BindEnv("AWS_DEFAULT_REGION")
	_ = viper.BindEnv("AWS_ACCESS_KEY")
	_ = viper.BindEnv("AWS_SECRET_KEY")
	_ = viper.BindEnv("BG_REMOVAL_URL")
	_ = viper.BindEnv("BG_REMOVAL_API_KEY")
	_ = viper.BindEnv("BG_REMOVAL_TIMEOUT_SEC")
	_ = viper.BindEnv("OUTFIT_GENERATOR")
	_ = viper.BindEnv("GEMINI_API_KEY")
	_ = viper.BindEnv("GEMINI_IMAGE_MODEL")
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SERVICE_NAME", "closet")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("BG_REMOVAL_URL", "https://api-inference.huggingface.co/models/briaai/RMBG-1.4")
	viper.SetDefault("BG_REMOVAL_TIMEOUT_SEC", 30)
	viper.SetDefault("OUTFIT_GENERATOR", "placeholder")
	viper.SetDefault("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")
}
