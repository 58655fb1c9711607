package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	AppName  string
	Env      string // DEV (default), TEST, QA, PROD
	Build    string

	Server struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	Session struct {
		Backend string // "inmem" (default) | "redis"
		TTL     time.Duration

		Redis struct {
			Address  string
			Password string
			DB       int
		}
	}

	Summary struct {
		HistogramBins int
		KDEBandwidth  float64 // 0 selects Silverman's rule at computation time
		KDEPoints     int
	}

	RollbarToken string
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NewConfig loads the app configuration from the environment,
// with an optional `config/.env.<env>` file loaded first.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Gradebook")
	v.SetDefault("build", "dev")
	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("sessionBackend", "inmem")
	v.SetDefault("sessionTTL", 12*time.Hour)
	v.SetDefault("redisAddress", "localhost:6379")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("histogramBins", 20)
	v.SetDefault("kdeBandwidth", 0.0)
	v.SetDefault("kdePoints", 100)
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Port = v.GetInt("serverPort")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Session.Backend = v.GetString("sessionBackend")
	conf.Session.TTL = v.GetDuration("sessionTTL")
	conf.Session.Redis.Address = v.GetString("redisAddress")
	conf.Session.Redis.Password = v.GetString("redisPassword")
	conf.Session.Redis.DB = v.GetInt("redisDB")
	conf.Summary.HistogramBins = v.GetInt("histogramBins")
	conf.Summary.KDEBandwidth = v.GetFloat64("kdeBandwidth")
	conf.Summary.KDEPoints = v.GetInt("kdePoints")
	return conf
}
