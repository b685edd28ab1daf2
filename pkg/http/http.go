package http

import "time"

// Http holds the API listener settings.
type Http struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ContextPath     string        `mapstructure:"contextPath"`
	AccessLog       bool          `mapstructure:"accessLog"`
	BodyLimit       int           `mapstructure:"bodyLimit"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	Auth            Auth          `mapstructure:"auth"`
}

type Auth struct {
	SecretKey    string        `mapstructure:"secretKey"`
	Issuer       string        `mapstructure:"issuer"`
	AccessExpire time.Duration `mapstructure:"accessExpire"`
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api/v1"
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 1 << 20
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 10 * time.Second
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 10 * time.Second
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
	if h.Auth.Issuer == "" {
		h.Auth.Issuer = "lunabeam"
	}
	if h.Auth.AccessExpire <= 0 {
		h.Auth.AccessExpire = time.Hour
	}
}
