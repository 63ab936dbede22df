package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/settings"
)

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settings.Redacted(s.settings.Persisted()))
}

// putSettings replaces the persisted settings. A masked API key, as
// returned by GET, keeps the stored key.
func (s *Server) putSettings(c *gin.Context) {
	var incoming models.Settings
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	effective, err := s.settings.Update(func(st *models.Settings) {
		key := st.API.OpenAI.APIKey
		*st = incoming
		if strings.HasPrefix(incoming.API.OpenAI.APIKey, "****") {
			st.API.OpenAI.APIKey = key
		}
	})
	if err != nil {
		s.logger.Error("failed to save settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	if s.rebuild != nil {
		s.SetAssistant(s.rebuild(effective))
	}
	s.logger.Info("settings updated",
		"model", effective.API.OpenAI.SelectedModel,
		"api_key_present", effective.API.OpenAI.APIKey != "")
	c.JSON(http.StatusOK, settings.Redacted(s.settings.Persisted()))
}
