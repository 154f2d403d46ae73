package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/api/middleware"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/llm"
	"github.com/qs3c/lingo_go_server/internal/pkg/response"
	"github.com/qs3c/lingo_go_server/internal/repository"
	"github.com/qs3c/lingo_go_server/internal/service"
	"github.com/qs3c/lingo_go_server/internal/testutil"
)

type fakeLLM struct {
	server *httptest.Server
	calls  int
	fail   bool
}

func newFakeLLM(t *testing.T) *fakeLLM {
	t.Helper()

	f := &fakeLLM{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"message":"boom"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Grammar breakdown here."}}]}`)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func setupAnalyzeHandler(t *testing.T) (*AnalyzeHandler, *service.QuotaService, *fakeLLM, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	fake := newFakeLLM(t)
	llmClient := llm.NewClient(&config.LLMConfig{
		BaseURL:        fake.server.URL,
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 5,
	})

	userRepo := repository.NewUserRepository(db)
	tierRepo := repository.NewTierRepository(db)
	quota := service.NewQuotaService(userRepo, tierRepo, &config.Config{})
	analyzeService := service.NewAnalyzeService(llmClient, quota, nil)

	return NewAnalyzeHandler(analyzeService), quota, fake, db
}

// 完整链路：配额中间件放行、LLM 调用成功、用量 +1
func TestAnalyzeHandler_Analyze(t *testing.T) {
	handler, quota, fake, db := setupAnalyzeHandler(t)

	testutil.TestTier(t, db, model.TierFree, 5, 50)
	user := testutil.TestUser(t, db, testutil.WithUsage(2, 10))

	router := gin.New()
	router.POST("/analyze", withUser(user.ID), middleware.QuotaCheck(quota), handler.Analyze)

	w := performRequest(router, "POST", "/analyze", dto.AnalyzeRequest{Content: "El gato come pescado."})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Grammar breakdown here.", data["result"])
	assert.Equal(t, 1, fake.calls)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 3, updated.DailyUsed)
	assert.Equal(t, 11, updated.MonthlyUsed)
}

// 配额用尽时中间件直接拒绝，LLM 一次都不会被调
func TestAnalyzeHandler_Analyze_QuotaExceeded(t *testing.T) {
	handler, quota, fake, db := setupAnalyzeHandler(t)

	testutil.TestTier(t, db, model.TierFree, 5, 50)
	user := testutil.TestUser(t, db, testutil.WithUsage(5, 10))

	router := gin.New()
	router.POST("/analyze", withUser(user.ID), middleware.QuotaCheck(quota), handler.Analyze)

	w := performRequest(router, "POST", "/analyze", dto.AnalyzeRequest{Content: "text"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeQuotaExceeded, resp.Code)
	assert.Equal(t, "Daily analysis limit reached. Please upgrade or wait until tomorrow.", resp.Message)
	assert.Equal(t, 0, fake.calls)
}

// LLM 失败的请求不消耗配额
func TestAnalyzeHandler_Analyze_LLMFailure(t *testing.T) {
	handler, quota, fake, db := setupAnalyzeHandler(t)
	fake.fail = true

	testutil.TestTier(t, db, model.TierFree, 5, 50)
	user := testutil.TestUser(t, db, testutil.WithUsage(2, 10))

	router := gin.New()
	router.POST("/analyze", withUser(user.ID), middleware.QuotaCheck(quota), handler.Analyze)

	w := performRequest(router, "POST", "/analyze", dto.AnalyzeRequest{Content: "text"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeServerError, resp.Code)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 2, updated.DailyUsed)
	assert.Equal(t, 10, updated.MonthlyUsed)
}

func TestAnalyzeHandler_Analyze_MissingContent(t *testing.T) {
	handler, quota, fake, db := setupAnalyzeHandler(t)

	testutil.TestTier(t, db, model.TierFree, 5, 50)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/analyze", withUser(user.ID), middleware.QuotaCheck(quota), handler.Analyze)

	w := performRequest(router, "POST", "/analyze", map[string]string{})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, 0, fake.calls)
}
