package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driving"
	"github.com/custodia-labs/ragcore/internal/runtime"
)

// cacheNamespace prefixes every chat cache key
const cacheNamespace = "chat"

// Ensure chatService implements ChatService
var _ driving.ChatService = (*chatService)(nil)

// chatService runs the query-time state machine: cache lookup, retrieval,
// prompt assembly, generation, cache write-back. Every stage past the
// readiness check degrades instead of failing: a retrieval failure never
// prevents generation, and a generation failure never prevents returning a
// (degraded) answer.
type chatService struct {
	handles *runtime.Handles
	logger  *slog.Logger
}

// NewChatService creates a new ChatService over the given handles
func NewChatService(handles *runtime.Handles, logger *slog.Logger) driving.ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &chatService{
		handles: handles,
		logger:  logger,
	}
}

// Chat answers a single question. The only terminal failure is a missing
// collaborator at startup; after that the exchange always carries an answer.
func (s *chatService) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatExchange, error) {
	if err := s.handles.Ready(); err != nil {
		return nil, err
	}
	if req.Question == "" {
		return nil, domain.ErrInvalidInput
	}
	req.Normalize()

	cache := s.handles.Cache()
	key := cache.DeriveKey(cacheNamespace, req.Question, strconv.Itoa(req.NResults))

	// Cache lookup. Any cache error is a miss, never a request failure.
	if cached, err := cache.Get(ctx, key); err == nil {
		var exchange domain.ChatExchange
		if err := json.Unmarshal(cached, &exchange); err == nil {
			return &exchange, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !isMiss(err) {
		s.logger.Debug("cache lookup failed, continuing without cache", "error", err)
	}

	// Retrieval. A failure here degrades to an answer without grounding
	// context rather than aborting the request.
	matches := s.retrieve(ctx, req.Question, req.NResults)

	context := make([]string, 0, len(matches))
	for _, match := range matches {
		context = append(context, match.Content)
	}

	prompt := domain.BuildPrompt(req.Question, context)

	answer, err := s.handles.LLMService().Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, returning fallback answer", "error", err)
		answer = domain.FallbackAnswer(req.Question)
	}

	exchange := &domain.ChatExchange{
		Question: req.Question,
		NResults: req.NResults,
		Answer:   answer,
		Context:  context,
	}

	// Write-back is best effort
	if encoded, err := json.Marshal(exchange); err == nil {
		if err := cache.Set(ctx, key, encoded, s.handles.CacheTTL()); err != nil {
			s.logger.Debug("cache write-back failed", "key", key, "error", err)
		}
	}

	return exchange, nil
}

// retrieve embeds the question and queries the vector index, returning nil
// on any failure along the way
func (s *chatService) retrieve(ctx context.Context, question string, k int) []*domain.RetrievedMatch {
	embeddingService := s.handles.EmbeddingService()
	if embeddingService == nil {
		s.logger.Warn("embedding service not configured, answering without context")
		return nil
	}

	embedding, err := embeddingService.EmbedQuery(ctx, question)
	if err != nil {
		s.logger.Warn("query embedding failed, answering without context", "error", err)
		return nil
	}

	matches, err := s.handles.VectorIndex().Query(ctx, embedding, k)
	if err != nil {
		s.logger.Warn("retrieval failed, answering without context", "error", err)
		return nil
	}
	return matches
}

// isMiss reports whether a cache error is an ordinary absent key
func isMiss(err error) bool {
	return err == domain.ErrCacheMiss
}
