package assistant

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/model"
	"github.com/techpal/techpal/internal/tools"
)

const exhaustedReply = "I'm still working on that. Could you tell me more about what you need?"

// Runner drives the model's tool-calling loop. Each round sends the history
// to the model, executes any requested tools, and feeds the results back.
// Rounds are capped so a confused model can't loop forever.
type Runner struct {
	client     model.Client
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	modelName  string
	maxTokens  int
	maxRounds  int
}

// NewRunner builds a runner.
func NewRunner(client model.Client, registry *tools.Registry, dispatcher *tools.Dispatcher, modelName string, maxTokens, maxRounds int) *Runner {
	return &Runner{
		client:     client,
		registry:   registry,
		dispatcher: dispatcher,
		modelName:  modelName,
		maxTokens:  maxTokens,
		maxRounds:  maxRounds,
	}
}

// Run executes the loop over the given history and returns the final reply
// text, any thinking text, and the updated history including all
// intermediate turns. A non-nil error means the model itself was
// unreachable; tool failures never surface as errors.
func (r *Runner) Run(ctx context.Context, system string, history []domain.Turn) (reply, thinking string, updated []domain.Turn, err error) {
	catalog := r.registry.Catalog()

	for round := 0; round < r.maxRounds; round++ {
		resp, err := r.client.Messages(ctx, model.MessageRequest{
			Model:     r.modelName,
			Messages:  history,
			System:    system,
			MaxTokens: r.maxTokens,
			Tools:     catalog,
			Thinking:  model.AdaptiveThinking(),
		})
		if err != nil {
			return "", "", history, err
		}

		turn := resp.AsTurn()
		history = append(history, turn)

		uses := turn.ToolUses()
		if len(uses) == 0 {
			reply := turn.JoinedText()
			if reply == "" {
				reply = "Done!"
			}
			return reply, turn.JoinedThinking(), history, nil
		}

		results := make([][]domain.ResultPart, len(uses))
		g, gctx := errgroup.WithContext(ctx)
		for i, use := range uses {
			g.Go(func() error {
				results[i] = r.dispatcher.Dispatch(gctx, use.Name, use.Input)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			slog.Error("tool dispatch group failed", "error", err)
		}

		blocks := make([]domain.ContentBlock, len(uses))
		for i, use := range uses {
			blocks[i] = domain.ContentBlock{
				Type:      domain.BlockToolResult,
				ToolUseID: use.ID,
				Content:   results[i],
			}
		}
		history = append(history, domain.BlockTurn(domain.RoleUser, blocks))
	}

	return exhaustedReply, "", history, nil
}
