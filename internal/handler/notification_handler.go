package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"invomail/internal/mail"
	"invomail/internal/service"
)

// NotificationHandler handles inbound delivery notification webhooks.
type NotificationHandler struct {
	processor  service.Processor
	httpClient *http.Client
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(processor service.Processor) *NotificationHandler {
	return &NotificationHandler{
		processor:  processor,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Receive handles POST /api/v1/notifications. SNS subscription handshakes
// are confirmed in place; everything else runs through the processor.
func (h *NotificationHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		RespondError(c, http.StatusBadRequest, "EMPTY_BODY", "request body is empty or unreadable")
		return
	}

	var env mail.SNSEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Type == "SubscriptionConfirmation" {
		h.confirmSubscription(c, &env)
		return
	}

	outcome, err := h.processor.ProcessNotification(c.Request.Context(), body)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"outcome": outcome})
}

// confirmSubscription completes the SNS handshake by visiting the
// SubscribeURL. Only AWS-hosted URLs are followed.
func (h *NotificationHandler) confirmSubscription(c *gin.Context, env *mail.SNSEnvelope) {
	u, err := url.Parse(env.SubscribeURL)
	if err != nil || u.Scheme != "https" || !strings.HasSuffix(u.Hostname(), ".amazonaws.com") {
		RespondError(c, http.StatusBadRequest, "BAD_SUBSCRIPTION", "subscribe URL missing or not an AWS endpoint")
		return
	}

	resp, err := h.httpClient.Get(env.SubscribeURL)
	if err != nil {
		log.Printf("notificationHandler: confirming subscription: %v", err)
		RespondError(c, http.StatusBadGateway, "SUBSCRIPTION_FAILED", "could not confirm subscription")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("notificationHandler: subscription confirmation returned %d", resp.StatusCode)
		RespondError(c, http.StatusBadGateway, "SUBSCRIPTION_FAILED", "could not confirm subscription")
		return
	}

	log.Printf("notificationHandler: confirmed SNS subscription for topic %s", env.TopicARN)
	RespondOK(c, gin.H{"subscribed": true})
}
