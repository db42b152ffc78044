package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/service"
	"github.com/godilite/procurement-server/pkg/cache"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyScoringTypes CacheKeyType = "grpc:scoring_types"
	cacheKeyQuestionBank CacheKeyType = "grpc:question_bank"
)

type GRPCHandlers struct {
	evaluations EvaluationService
	budget      BudgetService
	cache       Cacher
	logger      *zap.Logger
	sfGroup     singleflight.Group
	cacheTTL    time.Duration
}

var _ ProcurementServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers. cache may be nil.
func NewGRPCHandlers(evaluations EvaluationService, budget BudgetService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if evaluations == nil {
		panic("nil EvaluationService provided to NewGRPCHandlers")
	}
	if budget == nil {
		panic("nil BudgetService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		evaluations: evaluations,
		budget:      budget,
		cache:       cache,
		logger:      logger.Named("grpc-handler"),
		cacheTTL:    ttl,
	}
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		s.logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound):
		s.logger.Info("not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrStaticBank):
		s.logger.Warn("submission against static bank", zap.String("op", op))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) GetCurrencyRates(ctx context.Context, _ *GetCurrencyRatesRequest) (*GetCurrencyRatesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	table := s.budget.CurrencyRates(ctx)
	return &GetCurrencyRatesResponse{
		Reference: table.Reference,
		Rates:     table.Rates,
		Source:    table.Source,
		FetchedAt: table.FetchedAt,
	}, nil
}

func (s *GRPCHandlers) SummarizeBudget(ctx context.Context, req *SummarizeBudgetRequest) (*SummarizeBudgetResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	return &SummarizeBudgetResponse{BudgetSummary: s.budget.Summarize(ctx, req.BudgetSummaryRequest)}, nil
}

func (s *GRPCHandlers) ListScoringTypes(ctx context.Context, _ *ListScoringTypesRequest) (*ListScoringTypesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	types, err := cache.FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyScoringTypes), s.cacheTTL, true, s.logger,
		func(fetchCtx context.Context) ([]service.ScoringTypeInfo, error) {
			return s.evaluations.ScoringTypes(fetchCtx)
		})
	if err != nil {
		return nil, s.handleError(ctx, "ListScoringTypes", err)
	}
	return &ListScoringTypesResponse{ScoringTypes: types}, nil
}

// uncachedBank carries a static bank past the read-through cache so that
// the database bank is served again as soon as it is back.
type uncachedBank struct {
	bank evaluation.Bank
}

func (uncachedBank) Error() string { return "static question bank" }

func (s *GRPCHandlers) GetQuestionBank(ctx context.Context, req *GetQuestionBankRequest) (*GetQuestionBankResponse, error) {
	scoringType := strings.TrimSpace(req.ScoringType)
	if scoringType == "" {
		return nil, status.Error(codes.InvalidArgument, "scoringType is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	key := string(cacheKeyQuestionBank) + ":" + scoringType
	bank, err := cache.FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, false, s.logger,
		func(fetchCtx context.Context) (evaluation.Bank, error) {
			b, err := s.evaluations.QuestionBank(fetchCtx, scoringType)
			if err == nil && !b.Authoritative() {
				return evaluation.Bank{}, uncachedBank{bank: b}
			}
			return b, err
		})

	var static uncachedBank
	if errors.As(err, &static) {
		bank, err = static.bank, nil
	}
	if err != nil {
		return nil, s.handleError(ctx, "GetQuestionBank", err)
	}
	return &GetQuestionBankResponse{Bank: bank}, nil
}

func (s *GRPCHandlers) SubmitEvaluation(ctx context.Context, req *SubmitEvaluationRequest) (*SubmitEvaluationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	res, err := s.evaluations.Submit(ctx, req.SubmitEvaluationRequest)
	if err != nil {
		return nil, s.handleError(ctx, "SubmitEvaluation", err)
	}
	return &SubmitEvaluationResponse{SubmitResult: res}, nil
}

func (s *GRPCHandlers) GetEvaluation(ctx context.Context, req *GetEvaluationRequest) (*GetEvaluationResponse, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	rec, err := s.evaluations.Get(ctx, req.ID)
	if err != nil {
		return nil, s.handleError(ctx, "GetEvaluation", err)
	}
	return &GetEvaluationResponse{Evaluation: rec}, nil
}
