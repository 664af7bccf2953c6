// auth/client.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// UserInfo представляет информацию о пользователе из сервиса идентификации
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// IdentityClient проверяет bearer-токен сессии и возвращает пользователя.
// В тестах подменяется заглушкой.
type IdentityClient interface {
	GetUser(ctx context.Context, token string) (*UserInfo, error)
}

// Client ходит в сервис идентификации по HTTP (GET {base}/auth/v1/user).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Явный таймаут, чтобы зависший сервис идентификации
		// не держал запрос бесконечно.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) GetUser(ctx context.Context, token string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}

	if user.Email == "" {
		return nil, ErrInvalidToken
	}

	return &user, nil
}
