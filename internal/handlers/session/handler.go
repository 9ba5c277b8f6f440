package session

import (
	"net/http"
	"pscafe/infras/otel"
	"pscafe/internal/domains/session/model"
	"pscafe/internal/domains/session/service"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/timezone"
	"pscafe/transport/http/response"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Session
	otel    otel.Otel
}

func New(service service.Session, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/sessions", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetSessions)
		routerGroup.Get("/active", handler.GetActiveSessions)
		routerGroup.Get("/today", handler.GetTodaySessions)
		routerGroup.Get("/{id}", handler.GetSessionByID)
	})
}

// GetSessions lists sessions with optional filtering.
// @Summary Get all sessions
// @Description Retrieve sessions with optional filtering and pagination.
// @Tags Session
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param table_id query string false "Filter by table ID"
// @Param is_paid query string false "Filter by paid flag (true/false)"
// @Success 200 {object} response.Data[dto.GetSessionsResponse] "List of sessions"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/sessions [get]
func (handler *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSessions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := baseFilterGroup()

	if tableID := r.URL.Query().Get(model.FieldTableID); tableID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldTableID,
			Operator: gDto.FilterOperatorEq,
			Value:    tableID,
		})
	}

	if isPaid := r.URL.Query().Get(model.FieldIsPaid); isPaid != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldIsPaid,
			Operator: gDto.FilterOperatorEq,
			Value:    isPaid == "true",
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get sessions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetActiveSessions lists the sessions still running.
// @Summary Get active sessions
// @Tags Session
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetSessionsResponse] "List of active sessions"
// @Failure 500 {object} response.Error
// @Router /v1/sessions/active [get]
func (handler *Handler) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActiveSessions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := baseFilterGroup()
	filterGroup.Filters = append(filterGroup.Filters,
		gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldEndTime,
			Operator: gDto.FilterIsNull,
		},
		gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldIsReset,
			Operator: gDto.FilterOperatorEq,
			Value:    false,
		},
	)

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active sessions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetTodaySessions lists the sessions that started today.
// @Summary Get today's sessions
// @Tags Session
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetSessionsResponse] "List of today's sessions"
// @Failure 500 {object} response.Error
// @Router /v1/sessions/today [get]
func (handler *Handler) GetTodaySessions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodaySessions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	now := timezone.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	filterGroup := baseFilterGroup()
	filterGroup.Filters = append(filterGroup.Filters,
		gDto.Filter{
			ArgName:  "start_from",
			Table:    model.TableName,
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    dayStart,
		},
		gDto.Filter{
			ArgName:  "start_to",
			Table:    model.TableName,
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorLessEq,
			Value:    dayStart.AddDate(0, 0, 1).Add(-time.Microsecond),
		},
	)

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get today sessions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetSessionByID retrieves one session with its line items.
// @Summary Get session by ID
// @Tags Session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Data[dto.SessionResponse] "Session detail"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/sessions/{id} [get]
func (handler *Handler) GetSessionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSessionByID")
	defer scope.End()

	id := chi.URLParam(r, "id")

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func baseFilterGroup() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}
}
