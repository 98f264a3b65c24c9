package usecase

import (
	"context"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	domsvc "TradeSentry/internal/domain/service"
	"TradeSentry/pkg/logger"
)

// ChatFallback is returned when the chat collaborator cannot answer.
const ChatFallback = "I am unable to process that question right now."

type ChatUseCase struct {
	responder domsvc.ChatResponder
	metrics   drepo.Metrics
	log       *logger.Logger
}

func NewChatUseCase(responder domsvc.ChatResponder, metrics drepo.Metrics, log *logger.Logger) *ChatUseCase {
	return &ChatUseCase{responder: responder, metrics: metrics, log: log}
}

// Answer never fails; collaborator errors become ChatFallback.
func (uc *ChatUseCase) Answer(ctx context.Context, ticker, question string, contextData map[string]interface{}) string {
	symbol := models.NormalizeSymbol(ticker)
	if uc.responder == nil {
		return ChatFallback
	}
	answer, err := uc.responder.Answer(ctx, models.ChatInput{
		Symbol:   symbol,
		Question: question,
		Context:  contextData,
	})
	if err != nil {
		uc.log.Warn("chat failed", logger.String("symbol", symbol), logger.Error(err))
		uc.metrics.RecordError("chat")
		return ChatFallback
	}
	return answer
}
