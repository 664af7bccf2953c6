package auth

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Общий админ-ключ для служебных эндпоинтов (update_outline, list_*).
	AdminToken string `mapstructure:"ADMIN_TOKEN"`
	// Адрес сервиса идентификации, который проверяет пользовательские сессии.
	IdentityURL string `mapstructure:"IDENTITY_URL"`
	// Список редакторов через запятую и/или разрешённый почтовый домен.
	// Если не задано ни то ни другое — доступ запрещён всем.
	AllowedEmails string `mapstructure:"ALLOWED_EDITOR_EMAILS"`
	AllowedDomain string `mapstructure:"ALLOWED_EMAIL_DOMAIN"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.BindEnv("ADMIN_TOKEN")
	v.BindEnv("IDENTITY_URL")
	v.BindEnv("ALLOWED_EDITOR_EMAILS")
	v.BindEnv("ALLOWED_EMAIL_DOMAIN")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: using only environment variables: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	return &cfg, nil
}

// EditorEmails разбирает список редакторов: trim, lower, пустые отбрасываем.
func (c *Config) EditorEmails() []string {
	parts := strings.Split(c.AllowedEmails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}
