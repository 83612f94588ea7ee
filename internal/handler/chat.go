package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"edubot-backend/internal/llm"
	"edubot-backend/internal/middleware"
	"edubot-backend/internal/models"
	"edubot-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TranscriptAppender is the slice of the transcript store the chat endpoint
// needs.
type TranscriptAppender interface {
	Append(ctx context.Context, rec *models.ChatRecord) error
}

// Generator produces a completion for a user message.
type Generator interface {
	Generate(ctx context.Context, message string) (string, error)
}

// ChatHandler serves /chat: validate, generate, persist, respond.
type ChatHandler struct {
	Transcripts TranscriptAppender
	LLM         Generator
}

func NewChatHandler(transcripts TranscriptAppender, gen Generator) *ChatHandler {
	return &ChatHandler{
		Transcripts: transcripts,
		LLM:         gen,
	}
}

type chatReq struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "no message provided")
		return
	}

	if err := util.ValidateMessage(req.Message); err != nil {
		util.Error(c, http.StatusBadRequest, "no message provided")
		return
	}

	// free-text label unless the auth middleware established an identity
	userEmail := req.UserEmail
	if email, ok := middleware.AuthEmail(c); ok {
		userEmail = email
	}
	if userEmail == "" {
		userEmail = "anonymous"
	}

	response, err := h.LLM.Generate(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrUnavailable):
			log.Printf("chat: inference unreachable: %v", err)
			util.Error(c, http.StatusInternalServerError, "error communicating with inference server")
		case errors.Is(err, llm.ErrBadStatus):
			log.Printf("chat: inference failed: %v", err)
			util.Error(c, http.StatusInternalServerError, "failed to get response from inference server")
		default:
			log.Printf("chat: %v", err)
			util.Error(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	// persist only after a successful completion, before answering
	rec := &models.ChatRecord{
		UserEmail:   userEmail,
		UserMessage: req.Message,
		BotResponse: response,
		Timestamp:   time.Now().UTC(),
	}
	if err := h.Transcripts.Append(c.Request.Context(), rec); err != nil {
		log.Printf("chat: append transcript: %v", err)
		util.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"response": response,
	})
}
