package services

import (
	"context"
	"strings"

	apperrors "github.com/AnubhawM/roi-calculator/errors"
	"github.com/AnubhawM/roi-calculator/prompts"
	"github.com/AnubhawM/roi-calculator/web/format"
	"github.com/AnubhawM/roi-calculator/web/types"

	"go.uber.org/zap"
)

// AskResult is the chat panel's view of one answered question.
type AskResult struct {
	Answer    string
	Rendered  string
	SessionID string
}

type ChatService struct {
	llm       Completer
	sessions  *SessionService
	formatter *format.CurrencyFormatter
	logger    *zap.Logger
}

func NewChatService(llm Completer, sessions *SessionService, formatter *format.CurrencyFormatter, logger *zap.Logger) *ChatService {
	return &ChatService{
		llm:       llm,
		sessions:  sessions,
		formatter: formatter,
		logger:    logger,
	}
}

// Ask answers one chat question in the context of the calculator state.
// The session id is echoed back, or rotated when the request carries the
// explicit new-calculation signal.
func (cs *ChatService) Ask(ctx context.Context, req types.AskRequest) (*AskResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, "question is required")
	}

	session := cs.sessions.Resolve(req.SessionID, req.Context.NewCalculation)
	cs.sessions.Append(session, types.SenderUser, question)

	raw, err := cs.llm.Complete(ctx, prompts.System(), buildQuestionMessage(question, req.Context))
	if err != nil {
		return nil, err
	}

	display := cs.formatter.Format(format.Normalize(raw))
	cs.sessions.Append(session, types.SenderAssistant, display)

	cs.logger.Info("Answered chat question",
		zap.String("session_id", session.ID),
		zap.Int("messages", len(session.Messages)))

	return &AskResult{
		Answer:    display,
		Rendered:  format.RenderHTML(display),
		SessionID: session.ID,
	}, nil
}

// buildQuestionMessage folds the calculator context into the user message
// so the assistant can refer to the current inputs and last analysis.
func buildQuestionMessage(question string, ctx types.AskContext) string {
	var b strings.Builder
	b.WriteString("The user is working with a change management ROI calculator.\n")

	var inputs []string
	if ctx.Budget != "" {
		inputs = append(inputs, "Budget: $"+ctx.Budget)
	}
	if ctx.Employees != "" {
		inputs = append(inputs, "Impacted Employees: "+ctx.Employees)
	}
	if ctx.Duration != "" {
		inputs = append(inputs, "Duration: "+ctx.Duration+" months")
	}
	if len(inputs) > 0 {
		b.WriteString("Current inputs: " + strings.Join(inputs, ", ") + "\n")
	}
	if len(ctx.Files) > 0 {
		b.WriteString("Supporting documents: " + strings.Join(ctx.Files, ", ") + "\n")
	}
	if ctx.LastResponse != "" {
		b.WriteString("\nMost recent analysis:\n" + ctx.LastResponse + "\n")
	}

	b.WriteString("\nQuestion: " + question)
	return b.String()
}
