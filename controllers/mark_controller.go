package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/djdreamfix/Code-Companion/models"
	"github.com/djdreamfix/Code-Companion/services"

	"github.com/gin-gonic/gin"
)

type MarkController struct {
	Marks *services.MarkService
	Store *services.MarkStore
}

func NewMarkController(marks *services.MarkService, store *services.MarkStore) *MarkController {
	return &MarkController{Marks: marks, Store: store}
}

type createMarkReq struct {
	Lat   *float64 `json:"lat" binding:"required"`
	Lng   *float64 `json:"lng" binding:"required"`
	Color string   `json:"color" binding:"required"`
	Note  string   `json:"note"`
}

// GET /api/marks
func (mc *MarkController) List(c *gin.Context) {
	marks, err := mc.Store.ListLive(c.Request.Context())
	if err != nil {
		log.Printf("list marks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list marks"})
		return
	}
	if marks == nil {
		marks = []models.Mark{}
	}
	c.JSON(http.StatusOK, marks)
}

// POST /api/marks
func (mc *MarkController) Create(c *gin.Context) {
	var req createMarkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mark, err := mc.Marks.CreateMark(c.Request.Context(), services.CreateMarkInput{
		Lat:   *req.Lat,
		Lng:   *req.Lng,
		Color: req.Color,
		Note:  req.Note,
	})
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.Printf("create mark: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, mark)
}
