package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuangxunian/claude-code-router/internal/api"
	"github.com/shuangxunian/claude-code-router/internal/models"
)

// Hard cap on the model's answer for the image-description path.
const describeMaxTokens = 1024

// handleError sends a standardized error response with context-aware cancellation handling
func handleError(c *gin.Context, err error) {
	// Check for context cancellation (client disconnected)
	if errors.Is(err, context.Canceled) {
		c.JSON(499, gin.H{"error": "request canceled"})
		return
	}
	if se, ok := err.(*api.StatusError); ok {
		c.JSON(se.StatusCode, se)
		return
	}
	c.JSON(http.StatusInternalServerError, api.StatusError{ErrorMessage: err.Error()})
}

// handleVersion returns the service version
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": Version,
	})
}

// handleModels returns the advertised model catalog
func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, models.Catalog(s.config.Model, s.config.ImageModel))
}

// handleChatCompletions forwards chat requests to the upstream verbatim. The
// body is not reinterpreted here; routing decisions belong to the upstream.
func (s *Server) handleChatCompletions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		handleError(c, api.ErrBadRequest("Invalid request body: "+err.Error()))
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		handleError(c, api.ErrBadRequest("Empty request body"))
		return
	}

	s.forwardUpstream(c, body)
}

// handleDescribeImage is the piped-image boundary: it packages the uploaded
// base64 image into a single multimodal user message and forwards the
// upstream answer verbatim.
func (s *Server) handleDescribeImage(c *gin.Context) {
	var req api.DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, api.ErrBadRequest("No image data provided"))
		return
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = "Describe this image in detail."
	}

	chatReq := api.ChatRequest{
		Model: s.config.ImageModel,
		Messages: []api.Message{{
			Role: "user",
			Parts: []api.ContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &api.ImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", req.MimeType, req.Data),
				}},
			},
		}},
		MaxTokens: describeMaxTokens,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		handleError(c, api.ErrInternalServer("Failed to process image"))
		return
	}

	s.log.Info("describing piped image", "mime_type", req.MimeType, "model", s.config.ImageModel)
	s.forwardUpstream(c, body)
}

// forwardUpstream posts body to the upstream chat endpoint and streams the
// response back unchanged: status, headers, and payload are pass-through.
func (s *Server) forwardUpstream(c *gin.Context, body []byte) {
	ctx := c.Request.Context()
	upstreamURL := s.config.BaseURL + "/chat/completions"
	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodPost, upstreamURL, bytes.NewReader(body))
	if err != nil {
		handleError(c, api.ErrInternalServer("Failed to create upstream request"))
		return
	}

	upstreamReq.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		upstreamReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(upstreamReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Debug("client disconnected during upstream request")
			c.JSON(499, gin.H{"error": "request canceled"})
			return
		}
		s.log.Error("upstream request failed", "error", err)
		handleError(c, api.ErrInternalServer("Error processing request"))
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	c.Writer.WriteHeader(resp.StatusCode)

	if err := streamResponse(ctx, c, resp.Body); err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Debug("client disconnected during streaming")
		}
		return
	}
}

// streamResponse copies the response body chunk by chunk, flushing for SSE
// and bailing out when the client goes away.
func streamResponse(ctx context.Context, c *gin.Context, body io.ReadCloser) error {
	buf := make([]byte, 32*1024)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			c.Writer.Flush()
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}
