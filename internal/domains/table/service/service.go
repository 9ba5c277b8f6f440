package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pscafe/config"
	"pscafe/infras/otel"
	sessionModel "pscafe/internal/domains/session/model"
	sessionRepo "pscafe/internal/domains/session/repository"
	"pscafe/internal/domains/table/model"
	"pscafe/internal/domains/table/model/dto"
	"pscafe/internal/domains/table/repository"
	"pscafe/shared"
	"pscafe/shared/cache"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
	"pscafe/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheCountTable = "table:count"
	cacheStatsTable = "table:stats"
)

type Table interface {
	Create(ctx context.Context, req dto.CreateTableRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTablesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TableResponse, error)
	Update(ctx context.Context, req dto.UpdateTableRequest, id string) error
	Delete(ctx context.Context, id string) error
	DashboardStats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo        repository.Table
	sessionRepo sessionRepo.Session
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Table, sessionRepo sessionRepo.Session, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Table {
	return &serviceImpl{
		repo:        repo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTableRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	table, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse table request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid amount format: %v", err)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, table); err != nil {
		log.Error().Err(err).Msg("failed to create table")

		return fmt.Errorf("failed to create table: %w", err)
	}

	go s.invalidateCaches(ctx)

	return nil
}

// GetAll lists tables with their running session embedded, so the floor view
// can show live duration and amounts per table. The rendered response is not
// cached: duration and gaming amount tick with the clock, so every call must
// recompute them.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTablesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables")

		return res, fmt.Errorf("failed to count tables: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tables")

		return res, fmt.Errorf("failed to get tables: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err = s.embedActiveSessions(ctx, models, &res); err != nil {
		return res, err
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTable, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for table count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables")

		return res, fmt.Errorf("failed to count tables: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table count to cache")
		}
	}()

	return res, nil
}

// Get returns one table. Like GetAll the response stays uncached so the
// embedded session amounts are always current.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	table, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return res, fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == constant.Empty {
		return res, failure.NotFound("table not found") // nolint:wrapcheck
	}

	res.FromModel(table)

	active, err := s.sessionRepo.GetActiveByTable(ctx, table.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active session")

		return res, fmt.Errorf("failed to get active session: %w", err)
	}

	if active.ID != constant.Empty {
		current := &dto.ActiveSessionResponse{}
		current.FromModel(active, timezone.Now())
		res.CurrentSession = current
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTableRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdateTableRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user := shared.Operator(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if table exists")

		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if !exist {
		return failure.NotFound("table not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update table")

		return fmt.Errorf("failed to update table: %w", err)
	}

	go s.invalidateCaches(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if table exists")

		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if !exist {
		return failure.NotFound("table not found") // nolint:wrapcheck
	}

	active, err := s.sessionRepo.GetActiveByTable(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active session")

		return fmt.Errorf("failed to get active session: %w", err)
	}

	if active.ID != constant.Empty {
		return failure.Conflict("table has an active session") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete table")

		return fmt.Errorf("failed to delete table: %w", err)
	}

	go s.invalidateCaches(ctx)

	return nil
}

// DashboardStats aggregates the floor overview: table occupancy, running
// session count and today's traffic and revenue.
func (s *serviceImpl) DashboardStats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DashboardStats")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheStatsTable, timezone.Format(timezone.Now(), constant.DayFormat))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard stats")

		return res, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table stats")

		return res, fmt.Errorf("failed to get table stats: %w", err)
	}

	activeSessions, err := s.sessionRepo.Count(ctx, activeSessionsFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to count active sessions")

		return res, fmt.Errorf("failed to count active sessions: %w", err)
	}

	now := timezone.Now()

	todaySessions, err := s.sessionRepo.Count(ctx, todaySessionsFilter(now))
	if err != nil {
		log.Error().Err(err).Msg("failed to count today sessions")

		return res, fmt.Errorf("failed to count today sessions: %w", err)
	}

	todayRevenue, err := s.sessionRepo.TodayRevenue(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum today revenue")

		return res, fmt.Errorf("failed to sum today revenue: %w", err)
	}

	res = dto.StatsResponse{
		TotalTables:     stats.TotalTables,
		AvailableTables: stats.AvailableTables,
		OccupiedTables:  stats.OccupiedTables,
		ActiveSessions:  activeSessions,
		TodaySessions:   todaySessions,
		TodayRevenue:    todayRevenue.StringFixed(2),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard stats to cache")
		}
	}()

	return res, nil
}

// embedActiveSessions resolves the running sessions for the listed tables in
// one query and attaches them to the matching responses.
func (s *serviceImpl) embedActiveSessions(ctx context.Context, models []model.Table, res *dto.GetTablesResponse) error {
	tableIDs := make([]string, len(models))
	for i, table := range models {
		tableIDs[i] = table.ID
	}

	sessions, err := s.sessionRepo.GetActiveByTables(ctx, tableIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active sessions")

		return fmt.Errorf("failed to get active sessions: %w", err)
	}

	byTable := make(map[string]sessionModel.Session, len(sessions))
	for _, ses := range sessions {
		byTable[ses.TableID] = ses
	}

	now := timezone.Now()

	for i := range res.Tables {
		ses, ok := byTable[res.Tables[i].ID]
		if !ok {
			continue
		}

		current := &dto.ActiveSessionResponse{}
		current.FromModel(ses, now)
		res.Tables[i].CurrentSession = current
	}

	return nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheCountTable)
	shared.InvalidateCaches(c, s.cache, cacheStatsTable)
}

func activeSessionsFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    sessionModel.TableName,
				Field:    sessionModel.FieldEndTime,
				Operator: gDto.FilterIsNull,
			},
			gDto.Filter{
				Table:    sessionModel.TableName,
				Field:    sessionModel.FieldIsReset,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}

func todaySessionsFilter(now time.Time) gDto.FilterGroup {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "start_from",
				Table:    sessionModel.TableName,
				Field:    sessionModel.FieldStartTime,
				Value:    dayStart,
				Operator: gDto.FilterOperatorGreaterEq,
			},
			gDto.Filter{
				ArgName:  "start_to",
				Table:    sessionModel.TableName,
				Field:    sessionModel.FieldStartTime,
				Value:    dayStart.AddDate(0, 0, 1).Add(-time.Microsecond),
				Operator: gDto.FilterOperatorLessEq,
			},
		},
	}
}
