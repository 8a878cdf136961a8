package agent

import (
	"context"
	"fmt"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/service/memory"
	"github.com/sandevgo/recallbot/pkg/log"
)

// Agent runs one conversational turn: synthesize the user's context, ask
// the model, deliver the reply, then hand the turn to the memory manager
// for asynchronous persistence.
type Agent struct {
	ai       core.AIProvider
	memory   *memory.Manager
	prompter *memory.SysPrompt
}

func NewAgent(ai core.AIProvider, mem *memory.Manager, prompter *memory.SysPrompt) *Agent {
	return &Agent{
		ai:       ai,
		memory:   mem,
		prompter: prompter,
	}
}

func (a *Agent) Run(ctx context.Context, userID, sessionID, input string) (string, error) {
	logger := log.FromCtx(ctx)

	userMsg := a.memory.NewUserMessage(sessionID, input)

	synth, err := a.memory.BuildContext(ctx, userID, userMsg)
	if err != nil {
		return "", fmt.Errorf("failed to build context: %w", err)
	}

	messages := a.prompter.Build()
	messages = append(messages, synth.Messages...)

	responseMsg, err := a.ai.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("ai chat error: %w", err)
	}

	botMsg := a.memory.NewAssistantMessage(sessionID, responseMsg.Content)
	commit := a.memory.CommitTurn(ctx, userID, userMsg, botMsg)
	go func() {
		<-commit.Done()
		if err := commit.Err(); err != nil {
			logger.Error().Err(err).
				Str("user_id", userID).
				Bool("unsaved", commit.Unsaved()).
				Msg("turn write-back incomplete")
		}
	}()

	return responseMsg.Content, nil
}

// Reset wipes the user's memory on explicit request.
func (a *Agent) Reset(ctx context.Context, userID string) error {
	return a.memory.Reset(ctx, userID)
}
