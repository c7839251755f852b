package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/notification"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/scoring"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	idgen "github.com/thehubfc/prediction-league/internal/platform/id"
	"github.com/thehubfc/prediction-league/internal/platform/logging"
)

type CreateRoundInput struct {
	CompetitionID string
	Deadline      time.Time
}

type AddMatchInput struct {
	RoundID    string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
}

// RoundDetail is the admin view of a round with its matches.
type RoundDetail struct {
	Round   round.Round
	Matches []match.Match
}

type leaderboardInvalidator interface {
	InvalidateCompetition(ctx context.Context, competitionID string)
}

type RoundService struct {
	competitionRepo competition.Repository
	roundRepo       round.Repository
	matchRepo       match.Repository
	teamRepo        team.Repository
	predictionRepo  prediction.Repository
	statsRepo       scoring.Repository
	userRepo        user.Repository
	notifier        notification.Notifier
	invalidator     leaderboardInvalidator
	policy          scoring.WinnerPolicy
	idGen           idgen.Generator
	now             func() time.Time
}

func NewRoundService(
	competitionRepo competition.Repository,
	roundRepo round.Repository,
	matchRepo match.Repository,
	teamRepo team.Repository,
	predictionRepo prediction.Repository,
	statsRepo scoring.Repository,
	userRepo user.Repository,
	idGen idgen.Generator,
) *RoundService {
	return &RoundService{
		competitionRepo: competitionRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		teamRepo:        teamRepo,
		predictionRepo:  predictionRepo,
		statsRepo:       statsRepo,
		userRepo:        userRepo,
		policy:          scoring.DefaultWinnerPolicy,
		idGen:           idGen,
		now:             time.Now,
	}
}

func (s *RoundService) SetWinnerPolicy(policy scoring.WinnerPolicy) {
	s.policy = policy
}

// SetNotifier wires the optional mailer. Without one, publish and
// finalize still work and simply skip the fanout.
func (s *RoundService) SetNotifier(notifier notification.Notifier) {
	s.notifier = notifier
}

// SetLeaderboardInvalidator lets settled rounds drop the cached
// leaderboard for their competition.
func (s *RoundService) SetLeaderboardInvalidator(invalidator leaderboardInvalidator) {
	s.invalidator = invalidator
}

func (s *RoundService) Create(ctx context.Context, input CreateRoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.Create")
	defer span.End()

	competitionID := strings.TrimSpace(input.CompetitionID)
	if competitionID == "" {
		active, exists, err := s.competitionRepo.GetActive(ctx)
		if err != nil {
			return round.Round{}, fmt.Errorf("get active competition: %w", err)
		}
		if !exists {
			return round.Round{}, fmt.Errorf("%w: no active competition", ErrInvalidInput)
		}
		competitionID = active.ID
	} else {
		_, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
		if err != nil {
			return round.Round{}, fmt.Errorf("get competition: %w", err)
		}
		if !exists {
			return round.Round{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
		}
	}

	number, err := s.roundRepo.NextNumber(ctx, competitionID)
	if err != nil {
		return round.Round{}, fmt.Errorf("next round number: %w", err)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return round.Round{}, fmt.Errorf("generate round id: %w", err)
	}

	item := round.Round{
		ID:            newID,
		CompetitionID: competitionID,
		Number:        number,
		Type:          round.TypeRegular,
		Deadline:      input.Deadline.UTC(),
		Status:        round.StatusScheduled,
		CreatedAt:     s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return round.Round{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.roundRepo.Create(ctx, item); err != nil {
		return round.Round{}, fmt.Errorf("create round: %w", err)
	}

	return item, nil
}

func (s *RoundService) GetDetail(ctx context.Context, roundID string) (RoundDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.GetDetail")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return RoundDetail{}, err
	}

	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return RoundDetail{}, fmt.Errorf("list round matches: %w", err)
	}

	return RoundDetail{Round: item, Matches: matches}, nil
}

func (s *RoundService) ListByCompetition(ctx context.Context, competitionID string) ([]round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.ListByCompetition")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	items, err := s.roundRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	return items, nil
}

func (s *RoundService) UpdateDeadline(ctx context.Context, roundID string, deadline time.Time) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.UpdateDeadline")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return err
	}
	if item.Status == round.StatusFinal {
		return fmt.Errorf("%w: cannot move the deadline of a final round", ErrInvalidInput)
	}
	if deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", ErrInvalidInput)
	}

	if err := s.roundRepo.UpdateDeadline(ctx, item.ID, deadline.UTC()); err != nil {
		return fmt.Errorf("update round deadline: %w", err)
	}

	return nil
}

// Publish makes the round visible to players and, when a mailer is
// wired, tells them it opened. Delivery failures never fail the
// publish itself.
func (s *RoundService) Publish(ctx context.Context, roundID string) (notification.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.Publish")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return notification.Result{}, err
	}

	next, err := round.Transition(item.Status, round.ActionPublish, round.Guards{})
	if err != nil {
		return notification.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if next == item.Status {
		return notification.Result{}, nil
	}

	if err := s.roundRepo.UpdateStatus(ctx, item.ID, next); err != nil {
		return notification.Result{}, fmt.Errorf("publish round: %w", err)
	}
	item.Status = next

	return s.notifyRound(ctx, notification.KindRoundActive, item, nil), nil
}

func (s *RoundService) Unpublish(ctx context.Context, roundID string) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.Unpublish")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return err
	}

	next, err := round.Transition(item.Status, round.ActionUnpublish, round.Guards{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if next == item.Status {
		return nil
	}

	if err := s.roundRepo.UpdateStatus(ctx, item.ID, next); err != nil {
		return fmt.Errorf("unpublish round: %w", err)
	}

	return nil
}

// SetFinal settles the round: it refuses while counted matches are
// missing results, then scores every pick, stores the per-user stats
// and announces the winners.
func (s *RoundService) SetFinal(ctx context.Context, roundID string) (notification.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.SetFinal")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return notification.Result{}, err
	}

	matches, err := s.matchRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return notification.Result{}, fmt.Errorf("list round matches: %w", err)
	}

	missing := 0
	for _, m := range matches {
		if m.Counted() && !m.HasResult() {
			missing++
		}
	}

	next, err := round.Transition(item.Status, round.ActionSetFinal, round.Guards{MissingResults: missing})
	if err != nil {
		return notification.Result{}, err
	}
	if next == item.Status {
		return notification.Result{}, nil
	}

	preds, err := s.predictionRepo.ListByRound(ctx, item.ID)
	if err != nil {
		return notification.Result{}, fmt.Errorf("list round predictions: %w", err)
	}

	stats := scoring.ScoreRound(item, matches, preds)
	if err := s.statsRepo.ReplaceRound(ctx, item.ID, stats); err != nil {
		return notification.Result{}, fmt.Errorf("store round stats: %w", err)
	}

	if err := s.roundRepo.UpdateStatus(ctx, item.ID, next); err != nil {
		return notification.Result{}, fmt.Errorf("finalize round: %w", err)
	}
	item.Status = next

	if s.invalidator != nil {
		s.invalidator.InvalidateCompetition(ctx, item.CompetitionID)
	}

	return s.notifyRound(ctx, notification.KindRoundFinal, item, scoring.RoundWinners(stats, s.policy)), nil
}

// Unfinalize reopens a settled round so results can be corrected. The
// stored stats are dropped and will be rebuilt on the next finalize.
func (s *RoundService) Unfinalize(ctx context.Context, roundID string) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.Unfinalize")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return err
	}

	next, err := round.Transition(item.Status, round.ActionUnfinalize, round.Guards{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if next == item.Status {
		return nil
	}

	if err := s.statsRepo.DeleteByRound(ctx, item.ID); err != nil {
		return fmt.Errorf("drop round stats: %w", err)
	}
	if err := s.roundRepo.UpdateStatus(ctx, item.ID, next); err != nil {
		return fmt.Errorf("unfinalize round: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateCompetition(ctx, item.CompetitionID)
	}

	return nil
}

func (s *RoundService) AddMatch(ctx context.Context, input AddMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.AddMatch")
	defer span.End()

	item, err := s.getRound(ctx, input.RoundID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status == round.StatusFinal {
		return match.Match{}, fmt.Errorf("%w: cannot add matches to a final round", ErrInvalidInput)
	}

	for _, teamID := range []string{input.HomeTeamID, input.AwayTeamID} {
		_, exists, err := s.teamRepo.GetByID(ctx, strings.TrimSpace(teamID))
		if err != nil {
			return match.Match{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return match.Match{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	m := match.Match{
		ID:             newID,
		RoundID:        item.ID,
		HomeTeamID:     strings.TrimSpace(input.HomeTeamID),
		AwayTeamID:     strings.TrimSpace(input.AwayTeamID),
		KickoffAt:      input.KickoffAt.UTC(),
		Status:         match.StatusScheduled,
		IncludeInRound: true,
		CreatedAt:      s.now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	return m, nil
}

// DeleteMatch removes a match outright. Only allowed while the round is
// still being authored; once players saw the round the match can only
// be postponed.
func (s *RoundService) DeleteMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.DeleteMatch")
	defer span.End()

	m, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.RoundID != "" {
		item, err := s.getRound(ctx, m.RoundID)
		if err != nil {
			return err
		}
		if item.Status != round.StatusScheduled {
			return fmt.Errorf("%w: matches can only be deleted while the round is scheduled", ErrInvalidInput)
		}
	}

	if err := s.predictionRepo.DeleteByMatch(ctx, m.ID); err != nil {
		return fmt.Errorf("delete match predictions: %w", err)
	}
	if err := s.matchRepo.Delete(ctx, m.ID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	return nil
}

func (s *RoundService) SetResult(ctx context.Context, matchID string, result match.Result) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.SetResult")
	defer span.End()

	m, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if result != match.ResultNone && !result.Valid() {
		return fmt.Errorf("%w: unknown result %q", ErrInvalidInput, result)
	}
	if m.RoundID != "" {
		item, err := s.getRound(ctx, m.RoundID)
		if err != nil {
			return err
		}
		if item.Status == round.StatusFinal {
			return fmt.Errorf("%w: unlock the round before changing results", ErrInvalidInput)
		}
	}

	m.Result = result
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("update match result: %w", err)
	}

	return nil
}

// PostponeMatch detaches a match from its round. The row survives so it
// can later be rescheduled into a standalone round, but it no longer
// counts for predictions or scoring.
func (s *RoundService) PostponeMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.PostponeMatch")
	defer span.End()

	m, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status == match.StatusPostponed {
		return nil
	}
	if m.RoundID != "" {
		item, err := s.getRound(ctx, m.RoundID)
		if err != nil {
			return err
		}
		if item.Status == round.StatusFinal {
			return fmt.Errorf("%w: unlock the round before postponing matches", ErrInvalidInput)
		}
	}

	m.RoundID = ""
	m.Status = match.StatusPostponed
	m.IncludeInRound = false
	m.IsMatchOfWeek = false
	m.Result = match.ResultNone

	if err := s.matchRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("postpone match: %w", err)
	}

	return nil
}

func (s *RoundService) ListPostponedMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.ListPostponedMatches")
	defer span.End()

	items, err := s.matchRepo.ListPostponed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list postponed matches: %w", err)
	}

	return items, nil
}

// RescheduleStandalone turns a postponed match into its own standalone
// round. Old picks for the match are dropped so players predict fresh.
func (s *RoundService) RescheduleStandalone(ctx context.Context, matchID string, kickoffAt, deadline time.Time) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.RescheduleStandalone")
	defer span.End()

	m, err := s.getMatch(ctx, matchID)
	if err != nil {
		return round.Round{}, err
	}
	if m.Status != match.StatusPostponed {
		return round.Round{}, fmt.Errorf("%w: only postponed matches can be rescheduled", ErrInvalidInput)
	}

	active, exists, err := s.competitionRepo.GetActive(ctx)
	if err != nil {
		return round.Round{}, fmt.Errorf("get active competition: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: no active competition", ErrInvalidInput)
	}

	number, err := s.roundRepo.NextNumber(ctx, active.ID)
	if err != nil {
		return round.Round{}, fmt.Errorf("next round number: %w", err)
	}
	newID, err := s.idGen.NewID()
	if err != nil {
		return round.Round{}, fmt.Errorf("generate round id: %w", err)
	}

	item := round.Round{
		ID:            newID,
		CompetitionID: active.ID,
		Number:        number,
		Type:          round.TypeStandalone,
		Deadline:      deadline.UTC(),
		Status:        round.StatusScheduled,
		CreatedAt:     s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return round.Round{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.roundRepo.Create(ctx, item); err != nil {
		return round.Round{}, fmt.Errorf("create standalone round: %w", err)
	}

	if err := s.predictionRepo.DeleteByMatch(ctx, m.ID); err != nil {
		return round.Round{}, fmt.Errorf("drop stale predictions: %w", err)
	}

	m.RoundID = item.ID
	m.Status = match.StatusScheduled
	m.IncludeInRound = true
	m.KickoffAt = kickoffAt.UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return round.Round{}, fmt.Errorf("attach match to standalone round: %w", err)
	}

	return item, nil
}

// SetMatchOfWeek marks one match as double-or-nothing territory. Only
// meaningful in regular rounds and only before the round goes out.
func (s *RoundService) SetMatchOfWeek(ctx context.Context, roundID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "RoundService.SetMatchOfWeek")
	defer span.End()

	item, err := s.getRound(ctx, roundID)
	if err != nil {
		return err
	}
	if item.Type != round.TypeRegular {
		return fmt.Errorf("%w: standalone rounds have no match of the week", ErrInvalidInput)
	}
	if item.Status != round.StatusScheduled {
		return fmt.Errorf("%w: match of the week can only change while the round is scheduled", ErrInvalidInput)
	}

	m, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.RoundID != item.ID {
		return fmt.Errorf("%w: match %s is not part of round %s", ErrInvalidInput, matchID, roundID)
	}

	if err := s.matchRepo.ClearMatchOfWeek(ctx, item.ID); err != nil {
		return fmt.Errorf("clear match of the week: %w", err)
	}
	m.IsMatchOfWeek = true
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("set match of the week: %w", err)
	}

	return nil
}

func (s *RoundService) getRound(ctx context.Context, roundID string) (round.Round, error) {
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return round.Round{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	item, exists, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	return item, nil
}

func (s *RoundService) getMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}

func (s *RoundService) notifyRound(ctx context.Context, kind notification.Kind, item round.Round, winnerIDs []string) notification.Result {
	if s.notifier == nil {
		return notification.Result{}
	}

	players, err := s.userRepo.ListPlayers(ctx)
	if err != nil {
		logging.Default().WarnContext(ctx, "list players for round notification failed", "round_id", item.ID, "error", err)
		return notification.Result{}
	}

	recipients := make([]notification.Recipient, 0, len(players))
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
		if p.Email == "" {
			continue
		}
		recipients = append(recipients, notification.Recipient{UserID: p.ID, Name: p.Name, Email: p.Email})
	}

	info := notification.RoundInfo{
		RoundNumber: item.Number,
		Deadline:    item.Deadline,
	}
	if comp, exists, err := s.competitionRepo.GetByID(ctx, item.CompetitionID); err == nil && exists {
		info.CompetitionName = comp.Name
	}
	for _, winnerID := range winnerIDs {
		if name := names[winnerID]; name != "" {
			info.WinnerNames = append(info.WinnerNames, name)
		}
	}

	result, err := s.notifier.NotifyRound(ctx, kind, info, recipients)
	if err != nil {
		logging.Default().WarnContext(ctx, "round notification fanout failed",
			"round_id", item.ID,
			"kind", string(kind),
			"error", err,
		)
	}

	return result
}
