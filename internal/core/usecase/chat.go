package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

const (
	rateLimitedAnswer = "I've hit my usage limit for now. Please try again in a few minutes."
)

// ChatUseCase answers one chat turn: retrieve context for the message,
// compose the persona prompt with annotated sources and recent history,
// generate the answer, and persist both turns with the history cap applied.
type ChatUseCase struct {
	retriever ports.ContextProvider
	generator ports.AnswerGenerator
	history   ports.ConversationStore
	logger    *slog.Logger

	ownerName    string
	contextLimit int
	promptWindow int
	historyCap   int
}

func NewChatUseCase(retriever ports.ContextProvider, generator ports.AnswerGenerator, history ports.ConversationStore, logger *slog.Logger, ownerName string, contextLimit, promptWindow, historyCap int) *ChatUseCase {
	if contextLimit <= 0 {
		contextLimit = 5
	}
	if promptWindow <= 0 {
		promptWindow = 6
	}
	if historyCap <= 0 {
		historyCap = 20
	}
	return &ChatUseCase{
		retriever:    retriever,
		generator:    generator,
		history:      history,
		logger:       logger,
		ownerName:    ownerName,
		contextLimit: contextLimit,
		promptWindow: promptWindow,
		historyCap:   historyCap,
	}
}

func (uc *ChatUseCase) Respond(ctx context.Context, sessionID, message string) (*domain.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sources := uc.retriever.GetContext(ctx, message, uc.contextLimit)

	recent, err := uc.history.ListRecent(ctx, sessionID, uc.promptWindow)
	if err != nil {
		uc.logger.Warn("history read failed, answering without it", "session_id", sessionID, "error", err)
		recent = nil
	}

	prompt := uc.buildPrompt(message, sources, recent)

	answer, err := uc.generator.GenerateFromPrompt(ctx, prompt)
	if err != nil {
		if domain.IsKind(err, domain.ErrTemporary) {
			uc.logger.Warn("generation rate limited", "session_id", sessionID, "error", err)
			answer = rateLimitedAnswer
		} else {
			return nil, fmt.Errorf("generate answer: %w", err)
		}
	}

	uc.recordTurn(ctx, sessionID, message, answer)

	return &domain.ChatReply{
		SessionID: sessionID,
		Answer:    answer,
		Sources:   sources,
	}, nil
}

func (uc *ChatUseCase) ClearSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}
	return uc.history.Clear(ctx, sessionID)
}

// recordTurn persists the user and assistant messages and trims the session
// to the cap. History stores are best effort: a failed write degrades the
// next turn's context, never the current answer.
func (uc *ChatUseCase) recordTurn(ctx context.Context, sessionID, message, answer string) {
	now := time.Now().UTC()
	turns := []domain.ConversationMessage{
		{ID: uuid.NewString(), SessionID: sessionID, Role: "user", Content: message, CreatedAt: now},
		{ID: uuid.NewString(), SessionID: sessionID, Role: "assistant", Content: answer, CreatedAt: now},
	}
	for _, msg := range turns {
		if err := uc.history.AppendMessage(ctx, msg); err != nil {
			uc.logger.Warn("history append failed", "session_id", sessionID, "role", msg.Role, "error", err)
			return
		}
	}
	if err := uc.history.TrimHistory(ctx, sessionID, uc.historyCap); err != nil {
		uc.logger.Warn("history trim failed", "session_id", sessionID, "error", err)
	}
}

func (uc *ChatUseCase) buildPrompt(message string, sources []domain.ScoredResult, recent []domain.ConversationMessage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s's personal profile assistant. Answer questions about %s's background, experience, projects and education using only the context below. Be specific, cite concrete details from the sources, and say so plainly when the context does not cover the question.\n\n", uc.ownerName, uc.ownerName)

	if len(sources) == 0 {
		b.WriteString("Context: no matching documents were found for this question.\n\n")
	} else {
		b.WriteString("Context:\n")
		for i, src := range sources {
			b.WriteString(annotateSource(i+1, src))
			b.WriteString(src.Content)
			b.WriteString("\n\n")
		}
	}

	if len(recent) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, msg := range recent {
			fmt.Fprintf(&b, "%s: %s\n", promptRole(msg.Role), msg.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User question: %s\nAnswer:", message)
	return b.String()
}

// annotateSource renders the bracketed header line for one context fragment,
// including organizations detected in the fragment body when the metadata
// organization field is empty or incomplete.
func annotateSource(n int, src domain.ScoredResult) string {
	parts := []string{fmt.Sprintf("Source %d: %s", n, src.Metadata.Filename)}
	if src.Metadata.Organization != "" {
		parts = append(parts, "Org: "+src.Metadata.Organization)
	}
	if detected := detectOrganizations(src.Content); len(detected) > 0 {
		parts = append(parts, "Detected: "+strings.Join(detected, ", "))
	}
	if src.Metadata.Role != "" {
		parts = append(parts, "Role: "+src.Metadata.Role)
	}
	if tl := formatTimeline(src.Metadata.Timeline); tl != "" {
		parts = append(parts, "Timeline: "+tl)
	}
	return "[" + strings.Join(parts, " | ") + "]\n"
}

func detectOrganizations(content string) []string {
	lowered := strings.ToLower(content)
	var detected []string
	for _, org := range domain.KnownOrganizations {
		if orgContentMatch(lowered, org.Name) {
			detected = append(detected, strings.ToUpper(org.Name))
		}
	}
	return detected
}

func formatTimeline(tl domain.Timeline) string {
	switch {
	case tl.Start != "" && tl.End != "":
		return tl.Start + " - " + tl.End
	case tl.Start != "":
		return tl.Start + " - present"
	case tl.End != "":
		return "until " + tl.End
	default:
		return ""
	}
}

func promptRole(role string) string {
	if role == "assistant" {
		return "Assistant"
	}
	return "User"
}
