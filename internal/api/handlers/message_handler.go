package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/RustMQ/rusted-iron/internal/api/dto"
	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles message and reservation requests
type MessageHandler struct {
	messages MessageService
	statuses StatusService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages MessageService, statuses StatusService) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		statuses: statuses,
	}
}

// PostMessages godoc
// @Summary Enqueue messages
// @Description Stores one or more messages at the tail of the queue. Push queues deliver them to their subscribers.
// @Tags messages
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param messages body dto.EnqueueRequest true "Messages"
// @Success 201 {object} dto.EnqueueResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages [post]
func (h *MessageHandler) PostMessages(c *gin.Context) {
	var req dto.EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ids, err := h.messages.EnqueueBatch(c.Request.Context(), c.Param("name"), dto.ToMessages(req.Messages))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.EnqueueResponse{IDs: ids, Msg: "Messages put on queue."})
}

// PostWebhook godoc
// @Summary Enqueue a raw body
// @Description Stores the raw request body as a single message.
// @Tags messages
// @Accept plain
// @Produce json
// @Param name path string true "Queue name"
// @Success 201 {object} dto.EnqueueResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/webhook [post]
func (h *MessageHandler) PostWebhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if len(raw) == 0 {
		respondBadRequest(c, fmt.Errorf("%w: empty body", domain.ErrInvalidInput))
		return
	}

	id, err := h.messages.Enqueue(c.Request.Context(), c.Param("name"), domain.Message{Body: string(raw)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.EnqueueResponse{IDs: []string{id}, Msg: "Messages put on queue."})
}

// PeekMessages godoc
// @Summary Peek messages
// @Description Returns up to n messages from the head of the queue without reserving them.
// @Tags messages
// @Produce json
// @Param name path string true "Queue name"
// @Param n query int false "Number of messages (1-100)"
// @Success 200 {object} dto.MessageListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages [get]
func (h *MessageHandler) PeekMessages(c *gin.Context) {
	n := 0
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondBadRequest(c, fmt.Errorf("%w: n must be a non-negative integer", domain.ErrInvalidInput))
			return
		}
		n = parsed
	}

	msgs, err := h.messages.Peek(c.Request.Context(), c.Param("name"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMessageListResponse(msgs))
}

// DeleteMessages godoc
// @Summary Delete messages
// @Description Deletes the listed messages. A request without a body clears the queue.
// @Tags messages
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param ids body dto.DeleteMessagesRequest false "Messages to delete"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages [delete]
func (h *MessageHandler) DeleteMessages(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	queue := c.Param("name")
	if len(strings.TrimSpace(string(raw))) == 0 || strings.TrimSpace(string(raw)) == "{}" {
		if err := h.messages.Clear(c.Request.Context(), queue); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Cleared"})
		return
	}

	var req dto.DeleteMessagesRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if len(req.IDs) == 0 {
		respondBadRequest(c, fmt.Errorf("%w: ids must not be empty", domain.ErrInvalidInput))
		return
	}

	if _, err := h.messages.DeleteBatch(c.Request.Context(), queue, dto.ToIDs(req.IDs)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Deleted"})
}

// ReserveMessages godoc
// @Summary Reserve messages
// @Description Moves up to n messages from the head of the queue into the reserved set and returns them with a reservation id.
// @Tags reservations
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param request body dto.ReserveRequest false "Reservation options"
// @Success 200 {object} dto.MessageListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/reservations [post]
func (h *MessageHandler) ReserveMessages(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req dto.ReserveRequest
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			respondBadRequest(c, err)
			return
		}
	}
	if req.N < 0 {
		respondBadRequest(c, fmt.Errorf("%w: n must be a non-negative integer", domain.ErrInvalidInput))
		return
	}

	msgs, err := h.messages.Reserve(c.Request.Context(), c.Param("name"), req.N, req.Delete)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMessageListResponse(msgs))
}

// GetMessage godoc
// @Summary Get a message
// @Tags messages
// @Produce json
// @Param name path string true "Queue name"
// @Param id path string true "Message id"
// @Success 200 {object} domain.Message
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages/{id} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	msg, err := h.messages.Get(c.Request.Context(), c.Param("name"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// DeleteMessage godoc
// @Summary Delete a message
// @Tags messages
// @Produce json
// @Param name path string true "Queue name"
// @Param id path string true "Message id"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	if err := h.messages.Delete(c.Request.Context(), c.Param("name"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Deleted"})
}

// TouchMessage godoc
// @Summary Extend a reservation
// @Description Renews the reservation of a message. The returned reservation id replaces the presented one.
// @Tags reservations
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param id path string true "Message id"
// @Param request body dto.ReservationRequest true "Current reservation"
// @Success 200 {object} dto.TouchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages/{id}/touch [post]
func (h *MessageHandler) TouchMessage(c *gin.Context) {
	var req dto.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	token, err := h.messages.Touch(c.Request.Context(), c.Param("name"), c.Param("id"), req.ReservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TouchResponse{ReservationID: token, Msg: "Touched"})
}

// ReleaseMessage godoc
// @Summary Release a reservation
// @Description Returns a reserved message to its original position in the queue.
// @Tags reservations
// @Accept json
// @Produce json
// @Param name path string true "Queue name"
// @Param id path string true "Message id"
// @Param request body dto.ReservationRequest true "Current reservation"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages/{id}/release [post]
func (h *MessageHandler) ReleaseMessage(c *gin.Context) {
	var req dto.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	released, err := h.messages.Release(c.Request.Context(), c.Param("name"), c.Param("id"), req.ReservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !released {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Message not reserved", "the message is not currently reserved"))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Msg: "Released"})
}

// GetPushStatuses godoc
// @Summary Get push delivery status
// @Description Lists the latest delivery outcome per subscriber for a message of a push queue.
// @Tags messages
// @Produce json
// @Param name path string true "Queue name"
// @Param id path string true "Message id"
// @Success 200 {object} dto.PushStatusListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /queues/{name}/messages/{id}/subscribers [get]
func (h *MessageHandler) GetPushStatuses(c *gin.Context) {
	statuses, err := h.statuses.List(c.Request.Context(), c.Param("name"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPushStatusListResponse(statuses))
}
