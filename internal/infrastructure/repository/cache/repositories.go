package cache

import (
	"context"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	"github.com/thehubfc/prediction-league/internal/domain/user"
	basecache "github.com/thehubfc/prediction-league/internal/platform/cache"
)

// TeamRepository is a read-through cache in front of team storage. Teams
// are reference data, so entries only expire by TTL.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

// CompetitionRepository caches competition reads and drops the cached
// entries on every write so the active flag is never stale.
type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	key := "competition:id:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cachedCompetitionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}

	cached, _ := v.(cachedCompetitionByID)
	return cached.value, cached.exists, nil
}

func (r *CompetitionRepository) GetActive(ctx context.Context) (competition.Competition, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedCompetitionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}

	cached, _ := v.(cachedCompetitionByID)
	return cached.value, cached.exists, nil
}

func (r *CompetitionRepository) Create(ctx context.Context, item competition.Competition) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "competition:")
	return nil
}

func (r *CompetitionRepository) SetActive(ctx context.Context, competitionID string) error {
	if err := r.next.SetActive(ctx, competitionID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "competition:")
	return nil
}

type cachedCompetitionByID struct {
	value  competition.Competition
	exists bool
}

// UserRepository caches roster reads. The roster changes rarely and only
// through identity sync, so TTL expiry is enough.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) ListPlayers(ctx context.Context) ([]user.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "user:list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListPlayers(ctx)
		if err != nil {
			return nil, err
		}
		return append([]user.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]user.Player)
	return append([]user.Player(nil), items...), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Player, bool, error) {
	key := "user:id:" + userID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return cachedUserByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.Player{}, false, err
	}

	cached, _ := v.(cachedUserByID)
	return cached.value, cached.exists, nil
}

type cachedUserByID struct {
	value  user.Player
	exists bool
}
