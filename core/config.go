package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName  string
		Env      string
		Build    string
		Debug    bool
		TestMode bool
		WorkDir  string

		SecretKey    []byte
		RollbarToken string

		API    APIConfig
		Player PlayerConfig
	}

	// APIConfig configures the connection to the backend service.
	APIConfig struct {
		BaseURL            string
		Timeout            time.Duration
		JWTExpirationDelta time.Duration
	}

	// PlayerConfig holds client-side playback & quiz tunables.
	PlayerConfig struct {
		// WatchedThreshold is the fraction of a video's duration that must be
		// played before it is automatically marked as watched.
		WatchedThreshold float64
		// VerifyDebounceDelay is the quiet period observed before a typed
		// student ID is verified against the backend.
		VerifyDebounceDelay time.Duration
		// DefaultQuizTimeLimit applies when a quiz does not specify one.
		DefaultQuizTimeLimit time.Duration
	}
)

// NewConfig loads the app configuration: defaults first, then an optional
// config/.env.<env> file, then environment variables (prefixed with ENV).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "h2(h!x)#*c2(#yg4h^$cegm2emypoq5-wer)enb$+57=dz&uox")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("apiBaseUrl", "http://localhost:8000")
	conf.SetDefault("apiTimeout", 15*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("watchedThreshold", 0.8)
	conf.SetDefault("verifyDebounceDelay", 500*time.Millisecond)
	conf.SetDefault("defaultQuizTimeLimit", 60*time.Minute)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     testMode,
		WorkDir:      wd,
		SecretKey:    []byte(conf.GetString("secretKey")),
		RollbarToken: conf.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL:            conf.GetString("apiBaseUrl"),
			Timeout:            conf.GetDuration("apiTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Player: PlayerConfig{
			WatchedThreshold:     conf.GetFloat64("watchedThreshold"),
			VerifyDebounceDelay:  conf.GetDuration("verifyDebounceDelay"),
			DefaultQuizTimeLimit: conf.GetDuration("defaultQuizTimeLimit"),
		},
	}
}
