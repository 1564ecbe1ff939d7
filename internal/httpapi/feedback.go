package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/PredictNCure/internal/feedback"
)

type ratingRequest struct {
	UserID int64 `json:"userId"`
	Stars  int   `json:"stars"`
}

type complaintRequest struct {
	UserID int64  `json:"userId"`
	Text   string `json:"text"`
}

func (h *handlers) addRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	r, err := h.Store.AddRating(c.Request.Context(), req.UserID, req.Stars)
	if errors.Is(err, feedback.ErrInvalidRating) {
		validationFailed(c, err.Error())
		return
	}
	if err != nil {
		h.storeError(c, "add rating", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handlers) fileComplaint(c *gin.Context) {
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	complaint, err := h.Store.FileComplaint(c.Request.Context(), req.UserID, req.Text)
	if errors.Is(err, feedback.ErrEmptyComplaint) {
		validationFailed(c, err.Error())
		return
	}
	if err != nil {
		h.storeError(c, "file complaint", err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *handlers) metrics(c *gin.Context) {
	m, err := h.Store.Metrics(c.Request.Context())
	if err != nil {
		h.storeError(c, "metrics", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handlers) listRatings(c *gin.Context) {
	ratings, err := h.Store.ListRatings(c.Request.Context())
	if err != nil {
		h.storeError(c, "list ratings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *handlers) listComplaints(c *gin.Context) {
	complaints, err := h.Store.ListComplaints(c.Request.Context())
	if err != nil {
		h.storeError(c, "list complaints", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

func (h *handlers) resolveComplaint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		validationFailed(c, "complaint id must be a positive integer")
		return
	}

	err = h.Store.ResolveComplaint(c.Request.Context(), id)
	if errors.Is(err, feedback.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	if err != nil {
		h.storeError(c, "resolve complaint", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": feedback.StatusResolved})
}

func (h *handlers) storeError(c *gin.Context, op string, err error) {
	log.Printf("%s [%s]: %v", op, c.GetString("requestID"), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_error"})
}
