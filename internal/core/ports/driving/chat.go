package driving

import (
	"context"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// ChatService answers natural-language questions grounded in retrieved
// context. Once readiness checks pass, Chat always returns an exchange with
// some answer text; retrieval and generation failures degrade, they do not
// fail the request.
type ChatService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatExchange, error)
}
