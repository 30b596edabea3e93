package rpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/gacha"
	"github.com/xtding233/wordharbor/internal/logger"
	"github.com/xtding233/wordharbor/internal/progress"
)

// Service serves one player's progression.
type Service struct {
	store  *progress.Store
	cat    *catalog.Catalog
	engine progress.Drawer
	rng    gacha.RandomSource // review shuffles
	log    *logger.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used when StartSession gets no date.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithRNG sets the source for review card selection.
func WithRNG(rng gacha.RandomSource) Option { return func(s *Service) { s.rng = rng } }

func NewService(store *progress.Store, cat *catalog.Catalog, engine progress.Drawer, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		store:  store,
		cat:    cat,
		engine: engine,
		rng:    gacha.DefaultRNG(),
		log:    log.With("component", "rpc"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// toStatus maps domain errors to gRPC codes. Save failures are not errors for the
// caller: the transition stands and the store has already logged the failure.
func toStatus(err error) error {
	switch {
	case err == nil, errors.Is(err, progress.ErrSaveFailed):
		return nil
	case errors.Is(err, progress.ErrNoDrawsRemaining),
		errors.Is(err, progress.ErrReviewDone),
		errors.Is(err, progress.ErrNothingToReview),
		errors.Is(err, progress.ErrNoReview),
		errors.Is(err, progress.ErrReviewAnswered),
		errors.Is(err, progress.ErrReviewIncomplete):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, progress.ErrUnknownQuiz):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func respond(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *Service) state() (*structpb.Struct, error) {
	return respond(stateFields(s.store.Snapshot(), s.cat))
}

// StartSession runs the daily reset for the given date (YYYY-MM-DD), or today when empty.
func (s *Service) StartSession(_ context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	today := in.GetValue()
	if today == "" {
		today = progress.Today(s.now())
	} else if _, err := time.Parse(progress.DateLayout, today); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "date %q: want %s", today, progress.DateLayout)
	}
	reset, err := s.store.ResetDailyIfNeeded(today)
	if err := toStatus(err); err != nil {
		return nil, err
	}
	fields := stateFields(s.store.Snapshot(), s.cat)
	fields["reset"] = reset
	return respond(fields)
}

func (s *Service) GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return s.state()
}

func (s *Service) Draw(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	out, err := s.store.Draw(s.engine)
	if err := toStatus(err); err != nil {
		return nil, err
	}
	return respond(map[string]any{
		"card":       cardFields(out.Card),
		"rarity":     out.Rarity,
		"highRarity": out.HighRarity,
		"forced":     out.Forced,
		"isNew":      out.IsNew,
		"mastery":    out.Mastery,
		"remaining":  out.Remaining,
		"pityCount":  out.PityCount,
	})
}

// AnswerQuiz expects {"cardId": string, "option": number}.
func (s *Service) AnswerQuiz(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	id := f["cardId"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "cardId is required")
	}
	opt, ok := f["option"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "option must be a number")
	}
	out, err := s.store.AnswerQuiz(id, int(opt.NumberValue))
	if err := toStatus(err); err != nil {
		return nil, err
	}
	return respond(map[string]any{
		"cardId":  id,
		"correct": out.Correct,
		"raised":  out.Raised,
		"mastery": out.Mastery,
	})
}

// SetSecretary sets the secretary card; an empty value clears it.
func (s *Service) SetSecretary(_ context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if err := toStatus(s.store.SetSecretaryCard(in.GetValue())); err != nil {
		return nil, err
	}
	return s.state()
}

func (s *Service) ClearNewCards(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	if err := toStatus(s.store.ClearNewCardIds()); err != nil {
		return nil, err
	}
	return s.state()
}

func (s *Service) reviewFields(r *progress.ReviewSession) map[string]any {
	fields := map[string]any{
		"reviewId": r.ID,
		"cardIds":  anyList(r.CardIDs),
		"answered": len(r.Answers),
		"correct":  r.Correct,
	}
	if id := r.Current(); id != "" {
		if q, ok := s.cat.Quiz(id); ok {
			fields["quiz"] = quizFields(id, q)
		}
	}
	return fields
}

func (s *Service) StartReview(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	r, err := s.store.StartReview(s.rng)
	if err := toStatus(err); err != nil {
		return nil, err
	}
	return respond(s.reviewFields(r))
}

// AnswerReview grades the current review question with the chosen option index.
func (s *Service) AnswerReview(_ context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error) {
	ans, err := s.store.AnswerReview(int(in.GetValue()))
	if err := toStatus(err); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"cardId":    ans.CardID,
		"correct":   ans.Correct,
		"remaining": ans.Remaining,
	}
	if r, ok := s.store.Review(); ok {
		fields["review"] = s.reviewFields(r)
	}
	return respond(fields)
}

func (s *Service) FinishReview(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.store.FinishReview()
	if err := toStatus(err); err != nil {
		return nil, err
	}
	return respond(map[string]any{
		"correct":             res.Correct,
		"total":               res.Total,
		"bonus":               res.Bonus,
		"totalGachaRemaining": s.store.TotalGachaRemaining(),
	})
}

func (s *Service) Collection(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	entries := s.store.Collection()
	cards := make([]any, 0, len(entries))
	for _, e := range entries {
		c := cardFields(e.Card)
		c["owned"] = e.Owned
		c["mastery"] = e.Mastery
		c["new"] = e.New
		c["secretary"] = e.Secretary
		cards = append(cards, c)
	}
	return respond(map[string]any{
		"cards":          cards,
		"completionRate": s.store.CompletionRate(),
	})
}
