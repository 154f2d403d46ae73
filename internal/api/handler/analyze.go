package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/lingo_go_server/internal/api/middleware"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/response"
	"github.com/qs3c/lingo_go_server/internal/service"
)

type AnalyzeHandler struct {
	analyzeService *service.AnalyzeService
}

func NewAnalyzeHandler(analyzeService *service.AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzeService: analyzeService,
	}
}

// Analyze 文本分析，计量操作，配额中间件放行后才会进来
// POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.analyzeService.Analyze(c.Request.Context(), userID, &req)
	if err != nil {
		response.ServerError(c, "分析失败")
		return
	}

	response.Success(c, resp)
}

// AnalyzeStream 流式分析，SSE 下发增量片段
// POST /api/v1/analyze/stream
func (h *AnalyzeHandler) AnalyzeStream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	flusher, _ := c.Writer.(interface{ Flush() })

	err := h.analyzeService.AnalyzeStream(c.Request.Context(), userID, &req, func(chunk string) error {
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", chunk); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(c.Writer, "data: [ERROR]\n\n")
		return
	}

	fmt.Fprintf(c.Writer, "data: [DONE]\n\n")
	if flusher != nil {
		flusher.Flush()
	}
}
