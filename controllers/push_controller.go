package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/djdreamfix/Code-Companion/models"
	"github.com/djdreamfix/Code-Companion/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PushController struct {
	Push *services.PushService
	Subs *services.SubscriptionStore
}

func NewPushController(push *services.PushService, subs *services.SubscriptionStore) *PushController {
	return &PushController{Push: push, Subs: subs}
}

type subscribeReq struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

type unsubscribeReq struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// GET /api/push/public-key
func (pc *PushController) PublicKey(c *gin.Context) {
	if !pc.Push.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "web push disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": pc.Push.PublicKey()})
}

// POST /api/push/subscribe
func (pc *PushController) Subscribe(c *gin.Context) {
	if !pc.Push.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "web push disabled"})
		return
	}

	var req subscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription"})
		return
	}

	sub := &models.PushSubscription{
		ID:       uuid.NewString(),
		Endpoint: req.Endpoint,
		Keys: models.SubscriptionKeys{
			P256dh: req.Keys.P256dh,
			Auth:   req.Keys.Auth,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := pc.Subs.Insert(c.Request.Context(), sub); err != nil {
		log.Printf("store subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// POST /api/push/unsubscribe
func (pc *PushController) Unsubscribe(c *gin.Context) {
	var req unsubscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := pc.Subs.DeleteByEndpoint(c.Request.Context(), req.Endpoint); err != nil {
		log.Printf("remove subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
