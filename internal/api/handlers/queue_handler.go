package handlers

import (
	"net/http"

	"github.com/RustMQ/rusted-iron/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// QueueHandler handles queue configuration requests
type QueueHandler struct {
	queues QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queues QueueService) *QueueHandler {
	return &QueueHandler{
		queues: queues,
	}
}

// ListQueues godoc
// @Summary List queues
// @Tags queues
// @Produce json
// @Success 200 {object} dto.QueueListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /queues [get]
func (h *QueueHandler) ListQueues(c *gin.Context) {
	queues, err := h.queues.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToQueueListResponse(queues))
}

// CreateQueue godoc
// @Summary Create a queue
// @Description Creates a pull, unicast or multicast queue. A queue without type and push settings is a pull queue.
// @Tags queues
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param queue body dto.QueueRequest true "Queue configuration"
// @Success 201 {object} dto.QueueResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /queues/{name} [put]
func (h *QueueHandler) CreateQueue(c *gin.Context) {
	var req dto.QueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	req.Queue.Name = c.Param("name")

	info, err := h.queues.Create(c.Request.Context(), req.Queue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.QueueResponse{Queue: info})
}

// GetQueue godoc
// @Summary Get a queue
// @Tags queues
// @Produce json
// @Param name path string true "Queue name"
// @Success 200 {object} dto.QueueResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name} [get]
func (h *QueueHandler) GetQueue(c *gin.Context) {
	info, err := h.queues.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QueueResponse{Queue: info})
}

// PatchQueue godoc
// @Summary Update a queue
// @Description Merges the given fields into the queue. The queue type cannot change; subscribers are merged by name.
// @Tags queues
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param queue body dto.QueuePatchRequest true "Fields to change"
// @Success 200 {object} dto.QueueResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name} [patch]
func (h *QueueHandler) PatchQueue(c *gin.Context) {
	var req dto.QueuePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	info, err := h.queues.Patch(c.Request.Context(), c.Param("name"), req.Queue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QueueResponse{Queue: info})
}

// DeleteQueue godoc
// @Summary Delete a queue
// @Description Removes the queue with all its messages. Deleting a missing queue succeeds.
// @Tags queues
// @Produce json
// @Param name path string true "Queue name"
// @Success 200 {object} dto.MessageResponse
// @Router /queues/{name} [delete]
func (h *QueueHandler) DeleteQueue(c *gin.Context) {
	if err := h.queues.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Deleted"})
}

// AddSubscribers godoc
// @Summary Add or update subscribers
// @Tags subscribers
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param subscribers body dto.SubscribersRequest true "Subscribers"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/subscribers [post]
func (h *QueueHandler) AddSubscribers(c *gin.Context) {
	var req dto.SubscribersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if _, err := h.queues.UpdateSubscribers(c.Request.Context(), c.Param("name"), req.Subscribers); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Updated"})
}

// ReplaceSubscribers godoc
// @Summary Replace subscribers
// @Tags subscribers
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param subscribers body dto.SubscribersRequest true "Subscribers"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/subscribers [put]
func (h *QueueHandler) ReplaceSubscribers(c *gin.Context) {
	var req dto.SubscribersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if _, err := h.queues.ReplaceSubscribers(c.Request.Context(), c.Param("name"), req.Subscribers); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Updated"})
}

// DeleteSubscribers godoc
// @Summary Remove subscribers
// @Description Removes subscribers by name. Removing every subscriber of a push queue is refused.
// @Tags subscribers
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param subscribers body dto.SubscribersRequest true "Subscribers to remove (names only)"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/subscribers [delete]
func (h *QueueHandler) DeleteSubscribers(c *gin.Context) {
	var req dto.SubscribersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ok, err := h.queues.DeleteSubscribers(c.Request.Context(), c.Param("name"), req.Names())
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Not Updated", "a push queue must keep at least one subscriber"))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Updated"})
}
