package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"memgate/internal/types"

	"github.com/gin-gonic/gin"
)

var errSubscribeDisabled = errors.New("subscribe endpoint not configured")

// upstreamError carries the upstream's status and optional message.
type upstreamError struct {
	Status  int
	Message string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("subscribe upstream returned %d: %s", e.Status, e.Message)
}

// forwardSubscription posts the address to the configured newsletter endpoint.
func (app *App) forwardSubscription(ctx context.Context, email string) error {
	if app.Config.SubscribeURL == "" {
		return errSubscribeDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, app.Config.SubscribeTimeout)
	defer cancel()

	body, err := json.Marshal(types.SubscribeRequest{Email: email})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, app.Config.SubscribeURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if reqID, _ := ctx.Value(requestIDKey).(string); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	resp, err := app.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("subscribe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &payload)
		return &upstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(payload.Message)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// subscribeHandler validates an email and relays it to the newsletter backend.
func (app *App) subscribeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	var req types.SubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		logWarn("%sRejected subscribe request: %v", reqPrefix(ctx), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidEmail})
		return
	}

	err := app.forwardSubscription(ctx, strings.TrimSpace(req.Email))
	var upErr *upstreamError
	switch {
	case err == nil:
		logInfo("%sSubscription relayed", reqPrefix(ctx))
		c.JSON(http.StatusOK, gin.H{"message": MessageSubscribeAccepted})
	case errors.Is(err, errSubscribeDisabled):
		logWarn("%sSubscribe called but SUBSCRIBE_URL is not set", reqPrefix(ctx))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrorSubscribeDisabled})
	case errors.As(err, &upErr):
		logWarn("%s%v", reqPrefix(ctx), err)
		msg := upErr.Message
		if msg == "" {
			msg = ErrorSubscribeFailed
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	default:
		logWarn("%sSubscribe relay failed: %v", reqPrefix(ctx), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrorSubscribeFailed})
	}
}
