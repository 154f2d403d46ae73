package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/lingo_go_server/internal/api/middleware"
	"github.com/qs3c/lingo_go_server/internal/pkg/response"
	"github.com/qs3c/lingo_go_server/internal/service"
)

type TierHandler struct {
	tierService *service.TierService
}

func NewTierHandler(tierService *service.TierService) *TierHandler {
	return &TierHandler{
		tierService: tierService,
	}
}

// ListTiers 档位目录，附带调用者当前档位与用量。
// 档位参数的修改不走 HTTP，见 cmd/provision。
// GET /api/v1/subscription/tiers
func (h *TierHandler) ListTiers(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.tierService.ListForUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}
