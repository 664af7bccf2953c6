package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AdminIdentity — фиксированная подпись автора для админ-ключа,
// у него нет различия по пользователям.
const AdminIdentity = "admin"

var (
	ErrMissingToken = errors.New("no authorization header")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("forbidden")
)

// Authorizer решает, кто может вызывать операции над конспектами.
// Обе реализации возвращают одинаковый контракт: подпись автора или отказ.
type Authorizer interface {
	Authorize(r *http.Request) (string, error)
}

// BearerToken достаёт токен из заголовка Authorization.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := header
	if len(header) >= 7 && strings.EqualFold(header[:7], "Bearer ") {
		token = header[7:]
	}
	return strings.TrimSpace(token)
}

// StaticTokenAuthorizer сравнивает токен с одним настроенным админ-ключом.
type StaticTokenAuthorizer struct {
	adminToken string
}

func NewStaticTokenAuthorizer(adminToken string) *StaticTokenAuthorizer {
	return &StaticTokenAuthorizer{adminToken: adminToken}
}

func (a *StaticTokenAuthorizer) Authorize(r *http.Request) (string, error) {
	token := BearerToken(r)
	if token == "" {
		return "", ErrMissingToken
	}
	// Пустой настроенный ключ означает «закрыто для всех», а не «открыто».
	if a.adminToken == "" || token != a.adminToken {
		return "", ErrForbidden
	}
	return AdminIdentity, nil
}

// SessionAuthorizer проверяет пользовательскую сессию через сервис
// идентификации и пускает только редакторов из списка или разрешённого домена.
type SessionAuthorizer struct {
	client        IdentityClient
	allowedEmails map[string]bool
	allowedDomain string
}

func NewSessionAuthorizer(client IdentityClient, allowedEmails []string, allowedDomain string) *SessionAuthorizer {
	emails := make(map[string]bool, len(allowedEmails))
	for _, e := range allowedEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails[e] = true
		}
	}
	return &SessionAuthorizer{
		client:        client,
		allowedEmails: emails,
		allowedDomain: strings.ToLower(strings.TrimSpace(allowedDomain)),
	}
}

func (a *SessionAuthorizer) Authorize(r *http.Request) (string, error) {
	token := BearerToken(r)
	if token == "" {
		return "", ErrMissingToken
	}

	user, err := a.client.GetUser(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to verify session: %w", err)
	}

	email := strings.ToLower(user.Email)
	if !a.isAllowed(email) {
		return "", ErrForbidden
	}

	return email, nil
}

func (a *SessionAuthorizer) isAllowed(email string) bool {
	if email == "" {
		return false
	}
	if a.allowedEmails[email] {
		return true
	}
	if a.allowedDomain != "" && strings.HasSuffix(email, "@"+a.allowedDomain) {
		return true
	}
	// Ни список, ни домен не настроены — отказ по умолчанию.
	return false
}
