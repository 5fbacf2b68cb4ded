package chat

import (
	"context"
	"errors"
	"net/http"

	"flightchat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Responder is the orchestration entrypoint the handler drives.
type Responder interface {
	Respond(ctx context.Context, env *SearchRequestEnvelope) (*SearchResponseEnvelope, error)
}

// maxRequestBytes bounds an inbound envelope: a long transcript plus a
// full page of flights stays far below it.
const maxRequestBytes = 1 << 20

type ChatHandler struct {
	service Responder
	logger  logger.Client
}

func NewChatHandler(s Responder, log logger.Client) *ChatHandler {
	return &ChatHandler{
		service: s,
		logger:  log,
	}
}

func (h *ChatHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/chat", h.HandleChat)
}

// HandleChat godoc
// @Summary      Search flights or continue the conversation
// @Description  Runs a structured flight search (trigger=search) or answers a chat follow-up (trigger=chat) and returns the updated transcript, flights, suggested filters and form updates.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body SearchRequestEnvelope true "Request envelope"
// @Success      200 {object} SearchResponseEnvelope
// @Failure      400 {object} map[string]interface{} "Envelope failed validation; fields lists each offending path"
// @Failure      413 {object} map[string]interface{} "Request body too large"
// @Failure      500 {object} map[string]interface{} "Completion or flight search failed"
// @Router       /api/chat [post]
func (h *ChatHandler) HandleChat(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	body, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.sendError(c, &AppError{
				Status:  http.StatusRequestEntityTooLarge,
				Code:    ErrorCodePayloadTooLarge,
				Message: "Request body too large",
			})
			return
		}
		h.sendError(c, &ValidationError{Fields: []FieldError{{Path: "$", Reason: "unreadable body"}}})
		return
	}

	env, err := ParseEnvelope(body)
	if err != nil {
		h.sendError(c, err)
		return
	}

	response, err := h.service.Respond(c.Request.Context(), env)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) sendError(c *gin.Context, err error) {
	appErr := toAppError(err)

	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("chat request failed",
			logger.Field{Key: "code", Value: string(appErr.Code)},
			logger.Field{Key: "path", Value: c.Request.URL.Path},
			logger.Err(err),
		)
	} else {
		h.logger.Info("chat request rejected",
			logger.Field{Key: "code", Value: string(appErr.Code)},
			logger.Err(err),
		)
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.Status, body)
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
