package chat

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightchat/pkg/cache"
	"flightchat/pkg/idgen"
	"flightchat/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "flightchat/internal/chat"

// FlightProvider returns itinerary candidates for structured parameters.
type FlightProvider interface {
	SearchFlights(ctx context.Context, params FlightSearchParams) ([]Flight, error)
}

// Completer is the completion-service capability. GenerateStructured
// decodes a schema-constrained answer into out, whose type defines the schema.
type Completer interface {
	GenerateStructured(ctx context.Context, systemPrompt, contextText, schemaName string, out any) error
	GenerateText(ctx context.Context, systemPrompt, contextText string) (string, error)
}

type Config struct {
	// ResultLimit caps the flights returned per search.
	ResultLimit int
	// UpstreamTimeout bounds each completion and provider call.
	UpstreamTimeout time.Duration
	// CacheTTL is how long provider results are reused for identical parameters.
	CacheTTL time.Duration
}

type Service struct {
	completer Completer
	provider  FlightProvider
	cache     cache.Cache
	ids       idgen.Generator
	cfg       Config
	logger    logger.Client
	now       func() time.Time

	degraded metric.Int64Counter
}

func NewService(completer Completer, provider FlightProvider, c cache.Cache, ids idgen.Generator, cfg Config, log logger.Client) *Service {
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 5
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 20 * time.Second
	}
	if c == nil {
		c = cache.NewNoopCache()
	}

	degraded, err := otel.Meter(instrumentationName).Int64Counter(
		"chat.degraded_steps",
		metric.WithDescription("Non-critical completion steps that fell back to an empty result"),
	)
	if err != nil {
		log.Warn("failed to create degraded_steps counter", logger.Err(err))
	}

	return &Service{
		completer: completer,
		provider:  provider,
		cache:     c,
		ids:       ids,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
		degraded:  degraded,
	}
}

// Respond turns a validated envelope into a response envelope. The server
// holds no session state: everything it needs arrives in env.
func (s *Service) Respond(ctx context.Context, env *SearchRequestEnvelope) (*SearchResponseEnvelope, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "chat.Respond")
	defer span.End()
	span.SetAttributes(
		attribute.String("session_id", env.SessionID),
		attribute.String("trigger", string(env.Trigger)),
		attribute.Int("messages", len(env.Messages)),
	)

	var (
		resp *SearchResponseEnvelope
		err  error
	)
	switch env.Trigger {
	case TriggerSearch:
		resp, err = s.respondSearch(ctx, env)
	case TriggerChat:
		resp, err = s.respondChat(ctx, env)
	default:
		err = &ValidationError{Fields: []FieldError{{Path: "trigger", Reason: "must be one of: search, chat"}}}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (s *Service) respondSearch(ctx context.Context, env *SearchRequestEnvelope) (*SearchResponseEnvelope, error) {
	params, err := s.deriveSearchParams(ctx, env)
	if err != nil {
		return nil, err
	}

	flights, err := s.fetchFlights(ctx, *params)
	if err != nil {
		s.logger.Error("flight search failed",
			logger.Field{Key: "session_id", Value: env.SessionID},
			logger.Field{Key: "route", Value: params.FlyFrom + "->" + params.FlyTo},
			logger.Err(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	var (
		filters []SuggestedFilter
		updates *FormUpdates
	)

	// Filters and form updates write disjoint results and never fail the request.
	var g errgroup.Group
	g.Go(func() error {
		filters = s.deriveFilters(ctx, env, params, flights)
		return nil
	})
	g.Go(func() error {
		updates = s.deriveFormUpdates(ctx, env)
		return nil
	})
	_ = g.Wait()

	return &SearchResponseEnvelope{
		SessionID:        env.SessionID,
		Messages:         appendAssistant(env.Messages, searchSummary(params, flights)),
		Flights:          flights,
		SuggestedFilters: filters,
		FormUpdates:      updates,
	}, nil
}

func (s *Service) respondChat(ctx context.Context, env *SearchRequestEnvelope) (*SearchResponseEnvelope, error) {
	flights := env.Flights
	if flights == nil {
		flights = []Flight{}
	}

	var (
		reply   string
		filters = []SuggestedFilter{}
		updates *FormUpdates
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reply, err = s.generateReply(gctx, env)
		return err
	})
	if len(flights) > 0 {
		g.Go(func() error {
			filters = s.deriveFilters(gctx, env, nil, flights)
			return nil
		})
	}
	g.Go(func() error {
		updates = s.deriveFormUpdates(gctx, env)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SearchResponseEnvelope{
		SessionID:        env.SessionID,
		Messages:         appendAssistant(env.Messages, reply),
		Flights:          flights,
		SuggestedFilters: filters,
		FormUpdates:      updates,
	}, nil
}

func (s *Service) deriveSearchParams(ctx context.Context, env *SearchRequestEnvelope) (*FlightSearchParams, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()

	var params FlightSearchParams
	err := s.completer.GenerateStructured(ctx, searchParamsPrompt, requestContext(env, s.now()), "flight_search_params", &params)
	if err != nil {
		s.logger.Error("search parameter derivation failed",
			logger.Field{Key: "session_id", Value: env.SessionID},
			logger.Err(err),
		)
		return nil, &CompletionError{Step: StepSearchParams, Err: err}
	}

	params.applyDefaults()
	if err := ValidateStruct(params); err != nil {
		s.logger.Error("search parameters rejected",
			logger.Field{Key: "session_id", Value: env.SessionID},
			logger.Err(err),
		)
		return nil, &CompletionError{Step: StepSearchParams, Err: err}
	}

	s.logger.Debug("derived search parameters",
		logger.Field{Key: "session_id", Value: env.SessionID},
		logger.Field{Key: "params", Value: params},
	)
	return &params, nil
}

// fetchFlights queries the provider through the result cache and enforces
// the result cap. Ordering is whatever the provider returned.
func (s *Service) fetchFlights(ctx context.Context, params FlightSearchParams) ([]Flight, error) {
	cacheKey := s.generateCacheKey(params)

	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var flights []Flight
		if err := json.Unmarshal([]byte(cached), &flights); err == nil {
			s.logger.Debug("cache hit for search", logger.Field{Key: "cache_key", Value: cacheKey})
			return s.capFlights(flights), nil
		}
		s.logger.Error("failed to unmarshal cached flights", logger.Err(err))
	} else if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", logger.Field{Key: "cache_key", Value: cacheKey}, logger.Err(err))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()

	startTime := time.Now()
	flights, err := s.provider.SearchFlights(callCtx, params)
	if err != nil {
		return nil, err
	}
	flights = s.capFlights(flights)

	s.logger.Info("provider search completed",
		logger.Field{Key: "results", Value: len(flights)},
		logger.Field{Key: "search_time_ms", Value: time.Since(startTime).Milliseconds()},
	)

	if s.cfg.CacheTTL > 0 {
		b, err := json.Marshal(flights)
		if err != nil {
			s.logger.Error("failed to marshal flights for caching", logger.Err(err))
			return flights, nil
		}
		if err := s.cache.Set(ctx, cacheKey, string(b), s.cfg.CacheTTL); err != nil {
			s.logger.Error("failed to cache flights", logger.Field{Key: "cache_key", Value: cacheKey}, logger.Err(err))
		}
	}
	return flights, nil
}

func (s *Service) capFlights(flights []Flight) []Flight {
	if flights == nil {
		return []Flight{}
	}
	if len(flights) > s.cfg.ResultLimit {
		return flights[:s.cfg.ResultLimit]
	}
	return flights
}

// generateCacheKey creates a deterministic key from search parameters.
func (s *Service) generateCacheKey(params FlightSearchParams) string {
	b, _ := json.Marshal(params)
	hash := sha256.Sum256(b)
	return fmt.Sprintf("flight:search:%x", hash[:16])
}

// deriveFilters never fails: any error degrades to an empty list.
func (s *Service) deriveFilters(ctx context.Context, env *SearchRequestEnvelope, params *FlightSearchParams, flights []Flight) []SuggestedFilter {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()

	var set suggestedFilterSet
	err := s.completer.GenerateStructured(ctx, filtersPrompt, filtersContext(params, env.FormData, flights), "suggested_filters", &set)
	if err != nil {
		s.degrade(ctx, env, StepFilters, err)
		return []SuggestedFilter{}
	}

	filters := make([]SuggestedFilter, 0, len(set.Filters))
	for _, draft := range set.Filters {
		if err := ValidateStruct(draft); err != nil {
			s.logger.Warn("dropping malformed filter suggestion",
				logger.Field{Key: "session_id", Value: env.SessionID},
				logger.Err(err),
			)
			continue
		}
		filters = append(filters, SuggestedFilter{
			ID:          s.ids.NewID("flt"),
			Label:       draft.Label,
			Prompt:      draft.Prompt,
			Description: draft.Description,
		})
	}
	return filters
}

// deriveFormUpdates never fails: any error, refusal or invalid answer
// degrades to nil. An answer with every field null also yields nil.
func (s *Service) deriveFormUpdates(ctx context.Context, env *SearchRequestEnvelope) *FormUpdates {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()

	var updates FormUpdates
	err := s.completer.GenerateStructured(ctx, formUpdatesPrompt, requestContext(env, s.now()), "form_updates", &updates)
	if err != nil {
		s.degrade(ctx, env, StepFormUpdates, err)
		return nil
	}
	if err := ValidateStruct(updates); err != nil {
		s.degrade(ctx, env, StepFormUpdates, err)
		return nil
	}
	if updates.Empty() {
		return nil
	}
	return &updates
}

func (s *Service) generateReply(ctx context.Context, env *SearchRequestEnvelope) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()

	reply, err := s.completer.GenerateText(ctx, chatPrompt(env.FormData), transcript(env.Messages))
	if err != nil {
		s.logger.Error("chat reply failed",
			logger.Field{Key: "session_id", Value: env.SessionID},
			logger.Err(err),
		)
		return "", &CompletionError{Step: StepChatReply, Err: err}
	}
	return reply, nil
}

func (s *Service) degrade(ctx context.Context, env *SearchRequestEnvelope, step Step, err error) {
	s.logger.Warn("completion step degraded",
		logger.Field{Key: "session_id", Value: env.SessionID},
		logger.Field{Key: "step", Value: string(step)},
		logger.Err(err),
	)
	if s.degraded != nil {
		s.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("step", string(step))))
	}
}

func appendAssistant(messages []ChatMessage, content string) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages)+1)
	out = append(out, messages...)
	return append(out, ChatMessage{Role: RoleAssistant, Content: content})
}
