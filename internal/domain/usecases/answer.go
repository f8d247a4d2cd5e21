package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/ports"
)

// AnswerUseCase extracts short answers from an assembled context.
type AnswerUseCase struct {
	extractor ports.AnswerExtractor
	logger    *slog.Logger
}

// NewAnswerUseCase creates an AnswerUseCase with an injected extractor.
func NewAnswerUseCase(extractor ports.AnswerExtractor, logger *slog.Logger) *AnswerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerUseCase{extractor: extractor, logger: logger}
}

// Answer returns the extractor's top span for question over context.
// A blank context yields the not-found sentinel and the extractor is not called.
func (uc *AnswerUseCase) Answer(ctx context.Context, question, context string) (string, error) {
	if strings.TrimSpace(context) == "" {
		return entities.NotFoundMessage, nil
	}

	ans, err := uc.extractor.Extract(ctx, question, context)
	if err != nil {
		return "", fmt.Errorf("extracting answer: %w", err)
	}
	uc.logger.Debug("answer extracted", "score", ans.Score, "start", ans.Start, "end", ans.End)
	return ans.Text, nil
}
