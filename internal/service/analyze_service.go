package service

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/llm"
	"github.com/qs3c/lingo_go_server/internal/pkg/pubsub"
)

// 分析提示词，约束模型只做语言学习相关的文本解析
const analyzeSystemPrompt = "You are a language learning assistant. " +
	"Analyze the given text: explain its grammar structures, key vocabulary, " +
	"and idiomatic expressions in a way that helps a learner understand it."

type AnalyzeService struct {
	llm       *llm.Client
	quota     *QuotaService
	publisher *pubsub.Publisher
}

func NewAnalyzeService(llmClient *llm.Client, quota *QuotaService, publisher *pubsub.Publisher) *AnalyzeService {
	return &AnalyzeService{
		llm:       llmClient,
		quota:     quota,
		publisher: publisher,
	}
}

// Analyze 计量操作主流程：配额检查由中间件完成后进到这里，
// LLM 调用成功才记用量，失败的请求不消耗配额
func (s *AnalyzeService) Analyze(ctx context.Context, userID int64, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	result, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: analyzeSystemPrompt},
		{Role: "user", Content: req.Content},
	})
	if err != nil {
		return nil, err
	}

	if err := s.quota.UseQuota(userID, time.Now()); err != nil {
		// 用量写入失败不吞掉结果，只记日志
		log.Printf("Failed to record usage for user %d: %v", userID, err)
	}

	s.notifyResult(userID, result)

	return &dto.AnalyzeResponse{Result: result}, nil
}

// AnalyzeStream 流式版本，增量片段交给调用方回调，结束后记用量
func (s *AnalyzeService) AnalyzeStream(ctx context.Context, userID int64, req *dto.AnalyzeRequest, fn func(chunk string) error) error {
	err := s.llm.Stream(ctx, []llm.Message{
		{Role: "system", Content: analyzeSystemPrompt},
		{Role: "user", Content: req.Content},
	}, fn)
	if err != nil {
		return err
	}

	if err := s.quota.UseQuota(userID, time.Now()); err != nil {
		log.Printf("Failed to record usage for user %d: %v", userID, err)
	}
	return nil
}

// notifyResult 分析完成通知，尽力而为
func (s *AnalyzeService) notifyResult(userID int64, result string) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.publisher.Publish(ctx, userID, &pubsub.Event{
			Type:    pubsub.EventTaskResult,
			Message: "Analysis completed",
			Data:    map[string]interface{}{"result": result},
		})
		if err != nil {
			log.Printf("Failed to publish analysis result for user %d: %v", userID, err)
		}
	}()
}
