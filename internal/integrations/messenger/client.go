package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент мессенджер-шлюза: доставляет уведомления администраторам
// и клиентам. При disabled=true все отправки превращаются в записи лога -
// режим для локальной разработки и тестовых стендов.
type Client struct {
	baseURL      string
	adminChatIDs []int64
	disabled     bool
	httpClient   *http.Client
	log          Logger
}

// NewClient создает новый экземпляр клиента мессенджер-шлюза
func NewClient(baseURL string, adminChatIDs []int64, enabled bool, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		adminChatIDs: adminChatIDs,
		disabled:     !enabled,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendAdminAlert отправляет сообщение во все чаты администраторов.
// Сбой доставки в один чат не прерывает рассылку по остальным.
func (c *Client) SendAdminAlert(ctx context.Context, text string) error {
	if c.disabled {
		c.log.Info("Messenger disabled, admin alert suppressed: %s", text)
		return nil
	}

	var lastErr error
	for _, chatID := range c.adminChatIDs {
		if err := c.sendMessage(ctx, chatID, text); err != nil {
			c.log.Error("SendAdminAlert: failed to deliver to chat=%d: %v", chatID, err)
			lastErr = err
		}
	}
	return lastErr
}

// SendClientMessage отправляет личное сообщение клиенту
func (c *Client) SendClientMessage(ctx context.Context, chatID int64, text string) error {
	if c.disabled {
		c.log.Info("Messenger disabled, client message to chat=%d suppressed: %s", chatID, text)
		return nil
	}
	return c.sendMessage(ctx, chatID, text)
}

func (c *Client) sendMessage(ctx context.Context, chatID int64, text string) error {
	url := fmt.Sprintf("%s/internal/messages", c.baseURL)

	body, err := json.Marshal(SendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
