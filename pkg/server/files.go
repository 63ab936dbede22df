package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillmate/quillmate-cli/pkg/files"
)

type writeFileRequest struct {
	Content string `json:"content"`
}

type moveRequest struct {
	Src string `json:"src" binding:"required"`
	Dst string `json:"dst" binding:"required"`
}

type renameRequest struct {
	Path string `json:"path" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type newFileRequest struct {
	Dir       string `json:"dir"`
	Kind      string `json:"kind" binding:"required,oneof=document folder"`
	WithTitle bool   `json:"withTitle"`
}

func pathParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

// fileError maps store errors onto status codes.
func (s *Server) fileError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, files.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, files.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, files.ErrInvalidPath), errors.Is(err, files.ErrIsDirectory):
		status = http.StatusBadRequest
	default:
		s.logger.Error("file operation failed", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) listFiles(c *gin.Context) {
	items, err := s.files.List(c.Query("dir"))
	if err != nil {
		s.fileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": items})
}

func (s *Server) readFile(c *gin.Context) {
	rel := pathParam(c)
	content, err := s.files.Read(rel)
	if err != nil {
		s.fileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":        rel,
		"displayName": files.DisplayName(rel),
		"content":     content,
	})
}

func (s *Server) writeFile(c *gin.Context) {
	var req writeFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	rel := pathParam(c)
	if err := s.files.Write(rel, req.Content); err != nil {
		s.fileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": rel})
}

func (s *Server) deleteFile(c *gin.Context) {
	if err := s.files.Delete(pathParam(c)); err != nil {
		s.fileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) moveFile(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := s.files.Move(req.Src, req.Dst); err != nil {
		s.fileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": req.Dst})
}

func (s *Server) renameFile(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	renamed, err := s.files.Rename(req.Path, req.Name)
	if err != nil {
		s.fileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": renamed})
}

func (s *Server) newFile(c *gin.Context) {
	var req newFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var (
		rel string
		err error
	)
	if req.Kind == "folder" {
		rel, err = s.files.CreateFolder(req.Dir)
	} else {
		rel, err = s.files.CreateUntitled(req.Dir, req.WithTitle)
	}
	if err != nil {
		s.fileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": rel})
}
