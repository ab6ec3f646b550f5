package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Auth         Auth
	Proctor      Proctor
	Face         Face
	Voice        Voice
	Storage      Storage
	GeminiApiKey string
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

type Auth struct {
	JWTSecret    string
	TokenTTLMins int
}

// Proctor is the single source of truth for the alert policy knobs.
// Nothing else in the codebase hard-codes these numbers.
type Proctor struct {
	AlertCeiling int
	FaceDebounce int
}

type Face struct {
	Endpoint string
	Key      string
}

type Voice struct {
	Endpoint string
	Key      string
}

type Storage struct {
	SampleDir        string
	TempDir          string
	QuestionBankPath string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_SECRET", "ai-interview-dev-secret")
	viper.SetDefault("TOKEN_TTL_MINUTES", 480)
	viper.SetDefault("PROCTOR_ALERT_CEILING", 3)
	viper.SetDefault("PROCTOR_FACE_DEBOUNCE", 3)
	viper.SetDefault("SAMPLE_DIR", "samples")
	viper.SetDefault("TEMP_DIR", "temp")
	viper.SetDefault("QUESTION_BANK_PATH", "question_bank.yaml")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTLMins = viper.GetInt("TOKEN_TTL_MINUTES")

	config.Proctor.AlertCeiling = viper.GetInt("PROCTOR_ALERT_CEILING")
	config.Proctor.FaceDebounce = viper.GetInt("PROCTOR_FACE_DEBOUNCE")

	config.Face.Endpoint = viper.GetString("AZURE_FACE_ENDPOINT")
	config.Face.Key = viper.GetString("AZURE_FACE_KEY")
	config.Voice.Endpoint = viper.GetString("VOICE_VERIFY_ENDPOINT")
	config.Voice.Key = viper.GetString("VOICE_VERIFY_KEY")

	config.Storage.SampleDir = viper.GetString("SAMPLE_DIR")
	config.Storage.TempDir = viper.GetString("TEMP_DIR")
	config.Storage.QuestionBankPath = viper.GetString("QUESTION_BANK_PATH")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).
		Int("alert_ceiling", config.Proctor.AlertCeiling).
		Int("face_debounce", config.Proctor.FaceDebounce).
		Msg("Config loaded")
	return &config, nil
}
