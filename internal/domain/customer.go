package domain

import (
	"strings"
	"time"
)

// Customer — покупатель. Заказы ссылаются на него, движок заказов
// клиента никогда не изменяет.
type Customer struct {
	ID      string
	Name    string
	Email   string
	Address string
	// PasswordHash хранится как непрозрачная строка; хеширование
	// выполняется вне этого сервиса.
	PasswordHash string
	CreatedAt    time.Time
}

// ValidateForRegistration проверяет поля при регистрации клиента.
func (c *Customer) ValidateForRegistration() []error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, ErrEmailInvalid)
	}

	return errs
}
