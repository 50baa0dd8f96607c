package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/tranvd/gymlife-assistant/internal/llm"
	"github.com/tranvd/gymlife-assistant/internal/models"
	"github.com/tranvd/gymlife-assistant/internal/observability"
	"go.uber.org/zap"
)

// ChatBackend is the slice of the llm client the classifiers need.
type ChatBackend interface {
	Chat(ctx context.Context, messages []llm.Message, temperature float32, policy llm.RetryPolicy) (string, error)
}

// LLMClassifier asks the generative backend to pick exactly one member of the
// valid intent list. The reply is never coerced: anything outside the list,
// and any transport failure, yields IntentNone so the caller can continue
// into its own fallback response.
type LLMClassifier struct {
	backend ChatBackend
	logger  *zap.Logger
}

// NewLLMClassifier builds the generative branch of classification.
func NewLLMClassifier(backend ChatBackend, logger *zap.Logger) *LLMClassifier {
	return &LLMClassifier{backend: backend, logger: logger}
}

// Classify sends the canonical text plus the valid-intent list and checks the
// trimmed, lower-cased reply for membership.
func (c *LLMClassifier) Classify(ctx context.Context, canonicalText string, validIntents []string) models.Intent {
	prompt := fmt.Sprintf(`Bạn là bộ phân loại intent cho hệ thống GymLife.
Người dùng nhắn: %q
Các intent hợp lệ: %s
Trả về DUY NHẤT tên intent trong danh sách.`, canonicalText, strings.Join(validIntents, ", "))

	reply, err := c.backend.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, 0, llm.Single)
	if err != nil {
		c.logger.Error("LLM intent fallback failed", zap.Error(err))
		return models.IntentNone
	}

	tag := strings.ToLower(strings.TrimSpace(reply))
	intent := models.ParseIntent(tag, validIntents)
	if intent == models.IntentNone {
		c.logger.Warn("LLM returned invalid intent", zap.String("reply", tag))
		return models.IntentNone
	}

	c.logger.Info("Intent detected by LLM", zap.String("intent", tag))
	return intent
}

// HybridClassifier tries the rule cascade first and only then the generative
// fallback, matching the detection order of the chat pipeline.
type HybridClassifier struct {
	rules *RuleClassifier
	llm   *LLMClassifier
}

// NewHybridClassifier composes the two branches.
func NewHybridClassifier(rules *RuleClassifier, llm *LLMClassifier) *HybridClassifier {
	return &HybridClassifier{rules: rules, llm: llm}
}

// Classify implements Classifier.
func (c *HybridClassifier) Classify(ctx context.Context, canonicalText string, validIntents []string) models.Intent {
	if intent := c.rules.Classify(ctx, canonicalText, validIntents); intent != models.IntentNone {
		observability.RecordClassification(intent.String(), "rule")
		return intent
	}

	intent := c.llm.Classify(ctx, canonicalText, validIntents)
	if intent != models.IntentNone {
		observability.RecordClassification(intent.String(), "llm")
	} else {
		observability.RecordClassification("", "none")
	}
	return intent
}
