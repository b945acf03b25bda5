package guide

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adalundhe/trailhead/agents/curator"
	"github.com/adalundhe/trailhead/agents/scout"
	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/providers"
	"github.com/adalundhe/trailhead/core/session"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrTag prefixes every user-visible failure so the chat surface can
// style it distinctly.
const ErrTag = "[error]"

const routeCacheSize = 256

// Agent is the uniform surface the router dispatches to when keyword
// triggers fail and the model has to pick a handler.
type Agent interface {
	ID() string
	Capabilities() string
	Process(ctx context.Context, utterance string) (string, error)
}

// Config carries the router's collaborators.
type Config struct {
	Curator  *curator.Agent
	Scout    *scout.Agent
	Provider providers.Provider
	History  *session.History
	Logger   *slog.Logger
}

// Router owns intent decisions and all conversational state. Handlers
// never see the pending record or the last researched town; the router
// threads them through explicitly.
type Router struct {
	curator  *curator.Agent
	scout    *scout.Agent
	provider providers.Provider
	history  *session.History
	routes   *lru.Cache[string, string]
	logger   *slog.Logger
}

func New(cfg Config) (*Router, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	routes, err := lru.New[string, string](routeCacheSize)
	if err != nil {
		return nil, err
	}
	return &Router{
		curator:  cfg.Curator,
		scout:    cfg.Scout,
		provider: cfg.Provider,
		history:  cfg.History,
		routes:   routes,
		logger:   logger,
	}, nil
}

// Route resolves one utterance to a reply. It never panics outward and
// never returns an error; failures come back as ErrTag-prefixed text.
func (r *Router) Route(ctx context.Context, utterance string, state *session.State) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("route panicked", slog.Any("panic", rec))
			reply = fmt.Sprintf("%s internal failure handling that request", ErrTag)
		}
	}()

	if r.history != nil {
		r.history.Append(session.RoleUser, utterance)
	}
	reply = r.dispatch(ctx, utterance, state)
	if r.history != nil {
		role := session.RoleAssistant
		if strings.HasPrefix(reply, ErrTag) {
			role = session.RoleError
		}
		r.history.Append(role, reply)
	}
	return reply
}

// dispatch applies the trigger cascade in decision order; the first
// matching step wins.
func (r *Router) dispatch(ctx context.Context, utterance string, state *session.State) string {
	lowered := strings.ToLower(utterance)

	switch {
	case containsAny(lowered, listingPhrases):
		return r.reply(r.curator.ListNamesResponse(ctx))

	case containsAny(lowered, replaceWords):
		return r.replace(ctx, utterance, state)

	case strings.Contains(lowered, "research"):
		name := scout.ExtractName(utterance)
		if name == "" {
			return "Which town should I research? Try: research Bend, Oregon"
		}
		return r.research(ctx, name, state)

	case hasToken(lowered, confirmTokens):
		return r.confirm(ctx, state)

	case hasToken(lowered, deleteTokens):
		return r.reply(r.curator.Process(ctx, utterance))

	case containsAny(lowered, suggestionPhrases):
		return r.reply(r.scout.Suggest(ctx))

	case hasToken(lowered, []string{"help"}), strings.Contains(lowered, "what can you do"):
		return scout.AvailableCommands

	default:
		return r.classify(ctx, utterance)
	}
}

// replace is a delete-then-research sequence with no compensation: if
// the fresh research fails after the delete succeeded, the town stays
// gone and the failure is reported.
func (r *Router) replace(ctx context.Context, utterance string, state *session.State) string {
	name := extractReplaceName(utterance)
	if name == "" {
		name = state.LastLocation()
	}
	if name == "" {
		return "Which town should I update? Try: update Moab, Utah"
	}
	if _, err := r.curator.DeleteByName(ctx, name); err != nil {
		return r.errReply("replace", err)
	}
	return r.research(ctx, name, state)
}

func (r *Router) research(ctx context.Context, name string, state *session.State) string {
	state.SetLastLocation(name)
	reply, candidate, err := r.scout.Research(ctx, name)
	if err != nil {
		return r.errReply("research", err)
	}
	if candidate != nil {
		state.SetPending(candidate)
	}
	return reply
}

// confirm consumes the pending record exactly once. A confirmation with
// nothing pending falls through to a suggestion rather than failing.
func (r *Router) confirm(ctx context.Context, state *session.State) string {
	candidate := state.TakePending()
	if candidate == nil {
		return r.reply(r.scout.Suggest(ctx))
	}
	return r.reply(r.curator.Commit(ctx, candidate))
}

// classify asks the model which handler fits, caching the verdict so
// repeated phrasings skip the round trip. Unrecognized verdicts produce
// a help pointer with no side effects.
func (r *Router) classify(ctx context.Context, utterance string) string {
	key := strings.ToLower(strings.TrimSpace(utterance))

	verdict, cached := r.routes.Get(key)
	if !cached {
		resp, err := r.provider.Complete(ctx, &providers.Request{
			Messages: providers.UserMessage(
				classifyPrompt(utterance, r.curator.Capabilities(), r.scout.Capabilities()),
			),
		})
		if err != nil {
			return r.errReply("classify", err)
		}
		verdict = strings.ToLower(strings.TrimSpace(resp.Content))
		r.routes.Add(key, verdict)
	}

	switch {
	case strings.Contains(verdict, "database"), strings.Contains(verdict, "curator"):
		return r.reply(r.curator.Process(ctx, utterance))
	case strings.Contains(verdict, "research"), strings.Contains(verdict, "scout"):
		return r.reply(r.scout.Process(ctx, utterance))
	default:
		err := trailerrors.Newf(trailerrors.KindRouting, "classify",
			"unrecognized handler %q", verdict)
		r.logger.Warn("routing failed", slog.String("error", err.Error()))
		return "I couldn't determine how to handle that. Type help for the command list."
	}
}

func (r *Router) reply(text string, err error) string {
	if err != nil {
		return r.errReply("dispatch", err)
	}
	return text
}

func (r *Router) errReply(op string, err error) string {
	r.logger.Warn("request failed", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Sprintf("%s %s", ErrTag, err.Error())
}
