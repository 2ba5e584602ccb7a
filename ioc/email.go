package ioc

import (
	"github.com/cuongpc-foren/EMA-tool/internal/service/notification/email"
	"github.com/spf13/viper"
)

func InitEmailService() *email.Service {
	type Config struct {
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		Username    string `mapstructure:"username"`
		AppPassword string `mapstructure:"app_password"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("email.smtp", &cfg); err != nil {
		panic(err)
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Username == "" {
		panic("no smtp username set")
	}

	return email.NewService(cfg.Host, cfg.Port, cfg.Username, cfg.AppPassword)
}
