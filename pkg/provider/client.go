package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "wacrm/internal/errors"
	"wacrm/internal/privacy"
	"wacrm/internal/retry"

	"github.com/sirupsen/logrus"
)

type client struct {
	config  ClientConfig
	http    *http.Client
	backoff *retry.Backoff
	logger  *logrus.Logger
}

// NewClient creates a provider client. Calls are bounded by the configured
// timeout and retried with exponential backoff on retryable failures.
func NewClient(config ClientConfig, logger *logrus.Logger) Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := config.RetryCount
	if attempts <= 0 {
		attempts = 1
	}

	backoffConfig := retry.DefaultBackoffConfig()
	backoffConfig.MaxAttempts = attempts

	return &client{
		config:  config,
		http:    &http.Client{Timeout: timeout},
		backoff: retry.NewBackoff(backoffConfig),
		logger:  logger,
	}
}

func (c *client) SendText(ctx context.Context, phone, text string) (*SendMessageResponse, error) {
	payload := TextMessageRequest{
		JID:     c.toJID(phone),
		Message: text,
	}
	c.logger.WithField("jid", privacy.MaskJID(payload.JID)).Debug("Sending text message")
	return c.post(ctx, "text", payload)
}

func (c *client) SendMedia(ctx context.Context, phone string, media MediaMessageRequest) (*SendMessageResponse, error) {
	media.JID = c.toJID(phone)
	c.logger.WithField("jid", privacy.MaskJID(media.JID)).Debug("Sending media message")
	return c.post(ctx, "media", media)
}

// toJID converts a phone number to a provider JID by appending the
// configured suffix, unless the value is already addressed.
func (c *client) toJID(phone string) string {
	if strings.Contains(phone, "@") {
		return phone
	}
	return phone + c.config.JIDSuffix
}

func (c *client) endpoint(kind string) string {
	return fmt.Sprintf("%s/%s/messages/%s", strings.TrimSuffix(c.config.BaseURL, "/"), c.config.InstanceID, kind)
}

func (c *client) post(ctx context.Context, kind string, payload interface{}) (*SendMessageResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := c.endpoint(kind)

	var result *SendMessageResponse
	err = c.backoff.RetryWithPredicate(ctx, func() error {
		var attemptErr error
		result, attemptErr = c.doRequest(ctx, endpoint, jsonData)
		return attemptErr
	}, apperrors.IsRetryable)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *client) doRequest(ctx context.Context, endpoint string, body []byte) (*SendMessageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewProviderError(endpoint, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport-level failures never carry a status code; treat them
		// as retryable the same way a 5xx would be.
		return nil, apperrors.WrapRetryable(err, apperrors.ErrCodeProviderAPI, "provider request failed").
			WithContext("endpoint", endpoint).
			WithUserMessage("Failed to reach messaging provider")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError(endpoint, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if decodeErr := json.Unmarshal(respBody, &errResp); decodeErr == nil && errResp.Error != "" && resp.StatusCode < 500 {
			upstream := errResp.Error
			if errResp.Message != "" {
				upstream = fmt.Sprintf("%s: %s", errResp.Error, errResp.Message)
			}
			c.logger.WithFields(logrus.Fields{
				"endpoint":    endpoint,
				"status_code": resp.StatusCode,
			}).Warn("Provider rejected the message")
			return nil, apperrors.NewUpstreamRejectedError(endpoint, upstream)
		}
		return nil, apperrors.NewProviderError(endpoint, resp.StatusCode,
			fmt.Errorf("request failed with status %d", resp.StatusCode))
	}

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.NewProviderError(endpoint, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	if result.Error != "" {
		return nil, apperrors.NewUpstreamRejectedError(endpoint, result.Error)
	}

	return &result, nil
}
