// Package docrenderer реализует HTTP-клиент внешнего сервиса,
// который превращает финализированный счёт в печатный документ.
// Ядро передаёт рендеру замороженные поля счёта и связанных записей
// и никогда не форматирует документ само.
package docrenderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client — клиент внешнего рендера счетов.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient создаёт новый клиент рендера.
func NewClient(apiURL, token string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Render отправляет данные счёта рендеру и возвращает ссылку на документ.
func (c *Client) Render(ctx context.Context, reqParams RenderRequest) (*Document, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/documents", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
