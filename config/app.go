package config

type App struct {
	Port            string `env:"APP_PORT" default:"8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	JWTSecret       string `env:"JWT_SECRET,required"`
	TokenTTLMinutes int    `env:"TOKEN_TTL_MINUTES" default:"60"`
	MailAPIURL      string `env:"MAIL_API_URL"`
	MailAPIKey      string `env:"MAIL_API_KEY"`
	MailFrom        string `env:"MAIL_FROM"`
	Env             string `env:"APP_ENV" default:"dev"`
}
