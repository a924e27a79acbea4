// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collab is the HTTP client for the services the member service talks to:
email, board and message.

Every collaborator answers with the same envelope:

	{"success": true, "message": "...", "data": ...}

A non-2xx status or success=false is reported as [*CallError].
*/
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/users/auth"
)

// # Endpoints

const (
	pathSendEmail    = "/send-email"
	pathTemplateMail = "/tpl/general"
	pathBoardInfo    = "/get-board-info"
	pathSendMessage  = "/send-message"

	// maxResponseBytes bounds how much of a collaborator response is read.
	maxResponseBytes = 1 << 20
)

// Config holds collaborator base URLs.
type Config struct {
	EmailURL   string
	BoardURL   string
	MessageURL string
	Timeout    time.Duration
}

// Envelope is the JSON body every collaborator returns.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CallError describes a collaborator call that reached the service but failed.
type CallError struct {
	URL     string
	Status  int
	Message string
}

func (e *CallError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("collab: %s returned status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("collab: %s returned status %d: %s", e.URL, e.Status, e.Message)
}

// # Client

// Client calls the collaborator services. It is safe for concurrent use.
type Client struct {
	http   *http.Client
	config Config
}

// NewClient builds a [Client]. A nil httpClient gets one with config.Timeout.
func NewClient(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	config.EmailURL = strings.TrimRight(config.EmailURL, "/")
	config.BoardURL = strings.TrimRight(config.BoardURL, "/")
	config.MessageURL = strings.TrimRight(config.MessageURL, "/")

	return &Client{http: httpClient, config: config}
}

/*
SendWelcome posts a welcome mail to the email service.
*/
func (client *Client) SendWelcome(context context.Context, to, name string) error {
	_, err := client.post(context, client.config.EmailURL+pathSendEmail, map[string]string{
		"to":      to,
		"subject": "Welcome!",
		"body":    fmt.Sprintf("Hello %s, welcome to our platform!", name),
	})
	return err
}

/*
SendTemplate posts a mail rendered with the email service's general template.
It implements [auth.Mailer].
*/
func (client *Client) SendTemplate(context context.Context, mail auth.TemplateMail) error {
	_, err := client.post(context, client.config.EmailURL+pathTemplateMail, mail)
	return err
}

/*
BoardInfo asks the board service for the member's board summary.

Returns:
  - json.RawMessage: The envelope's data, passed through untouched
*/
func (client *Client) BoardInfo(context context.Context, userID string) (json.RawMessage, error) {
	envelope, err := client.post(context, client.config.BoardURL+pathBoardInfo, map[string]string{
		"userId": userID,
	})
	if err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

/*
SendMessage posts a message through the message service.
*/
func (client *Client) SendMessage(context context.Context, sender, recipient, text string) error {
	_, err := client.post(context, client.config.MessageURL+pathSendMessage, map[string]string{
		"sender":    sender,
		"recipient": recipient,
		"message":   text,
	})
	return err
}

func (client *Client) post(ctx context.Context, url string, payload any) (*Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("collab_encode_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("collab_request_failed: %w", err)
	}
	request.Header.Set(constants.HeaderContentType, "application/json")

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("collab_call_failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("collab_read_failed: %w", err)
	}

	var envelope Envelope
	decodeErr := json.Unmarshal(raw, &envelope)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &CallError{URL: url, Status: response.StatusCode, Message: envelope.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("collab_decode_failed: %w", decodeErr)
	}
	if !envelope.Success {
		return nil, &CallError{URL: url, Status: response.StatusCode, Message: envelope.Message}
	}

	return &envelope, nil
}
