package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) chat(c *gin.Context) {
	var req assistant.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := s.currentAssistant().Chat(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("chat failed", "filename", req.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) enhance(c *gin.Context) {
	var req assistant.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := s.currentAssistant().Enhance(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("enhance failed", "filename", req.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enhance text"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
