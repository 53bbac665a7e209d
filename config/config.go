package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Postgres struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
	}
	Game struct {
		HandLimit int
		QueueTTL  int // seconds a quick-match queue entry survives
	}
}

var C Config

func Load() {
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("jwt.secret", "dev-secret-change-me")
	viper.SetDefault("game.handlimit", 5)
	viper.SetDefault("game.queuettl", 300)

	viper.SetConfigFile("config/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		// defaults + env are enough for local runs
		log.Printf("config file not loaded (%v), using defaults", err)
	}
	viper.AutomaticEnv()
	if err := viper.Unmarshal(&C); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
}
