package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        Server
	Database      Database
	Minio         Minio
	SessionSecret string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Minio struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the externally reachable base URL for uploaded objects,
	// e.g. https://media.example.com. Defaults to the endpoint if empty.
	PublicURL string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Minio.Endpoint = viper.GetString("MINIO_ENDPOINT")
	config.Minio.AccessKey = viper.GetString("MINIO_ACCESS_KEY")
	config.Minio.SecretKey = viper.GetString("MINIO_SECRET_KEY")
	config.Minio.Bucket = viper.GetString("MINIO_BUCKET")
	config.Minio.UseSSL = viper.GetBool("MINIO_USE_SSL")
	config.Minio.PublicURL = viper.GetString("MINIO_PUBLIC_URL")

	config.SessionSecret = viper.GetString("SESSION_SECRET")
	if config.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is not set, using insecure default")
		config.SessionSecret = "your-secret-key"
	}

	if config.Server.Port == "" {
		config.Server.Port = "5000"
	}

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
