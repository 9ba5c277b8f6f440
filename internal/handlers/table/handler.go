package table

import (
	"net/http"
	"pscafe/infras/otel"
	sessionDto "pscafe/internal/domains/session/model/dto"
	sessionService "pscafe/internal/domains/session/service"
	"pscafe/internal/domains/table/model"
	"pscafe/internal/domains/table/model/dto"
	"pscafe/internal/domains/table/service"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/validator"
	"pscafe/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service        service.Table
	sessionService sessionService.Session
	otel           otel.Otel
}

func New(service service.Table, sessionService sessionService.Session, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		sessionService: sessionService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tables", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTable)
		routerGroup.Get("/", handler.GetTables)
		routerGroup.Get("/dashboard_stats", handler.GetDashboardStats)
		routerGroup.Get("/{id}", handler.GetTableByID)
		routerGroup.Patch("/{id}", handler.UpdateTable)
		routerGroup.Delete("/{id}", handler.DeleteTable)

		routerGroup.Post("/{id}/start_session", handler.StartSession)
		routerGroup.Post("/{id}/stop_session", handler.StopSession)
		routerGroup.Post("/{id}/add_product", handler.AddProduct)
		routerGroup.Post("/{id}/remove_product", handler.RemoveProduct)
		routerGroup.Post("/{id}/create_receipt", handler.CreateReceipt)
		routerGroup.Post("/{id}/reset_table", handler.ResetTable)
	})
}

// CreateTable registers a new table on the floor.
// @Summary Create a new table
// @Description Create a table with its hourly rate and opening fee.
// @Tags Table
// @Accept json
// @Produce json
// @Param request body dto.CreateTableRequest true "Create Table Request"
// @Success 201 {object} response.Message "Table created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables [post]
func (handler *Handler) CreateTable(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTable")
	defer scope.End()

	req := dto.CreateTableRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create table")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Table created successfully")
}

// GetTables lists tables with their running session embedded.
// @Summary Get all tables
// @Description Retrieve all tables with optional filtering and pagination. Occupied tables embed their running session.
// @Tags Table
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (available, occupied, maintenance)"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetTablesResponse] "List of tables"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables [get]
func (handler *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTables")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
		})
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tables")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetDashboardStats serves the floor overview aggregate.
// @Summary Get dashboard statistics
// @Description Table occupancy, active session count and today's traffic and revenue.
// @Tags Table
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse] "Dashboard statistics"
// @Failure 500 {object} response.Error
// @Router /v1/tables/dashboard_stats [get]
func (handler *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboardStats")
	defer scope.End()

	res, err := handler.service.DashboardStats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetTableByID retrieves one table with its running session.
// @Summary Get table by ID
// @Tags Table
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Data[dto.TableResponse] "Table detail"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id} [get]
func (handler *Handler) GetTableByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTableByID")
	defer scope.End()

	id := chi.URLParam(r, "id")

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get table")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateTable updates a table's attributes.
// @Summary Update table
// @Tags Table
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body dto.UpdateTableRequest true "Update Table Request"
// @Success 200 {object} response.Message "Table updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id} [patch]
func (handler *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTable")
	defer scope.End()

	id := chi.URLParam(r, "id")
	req := dto.UpdateTableRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update table")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Table updated successfully")
}

// DeleteTable removes a table. Tables with a running session cannot be
// deleted.
// @Summary Delete table
// @Tags Table
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Message "Table deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id} [delete]
func (handler *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTable")
	defer scope.End()

	id := chi.URLParam(r, "id")

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete table")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Table deleted successfully")
}

// StartSession opens a session on the table.
// @Summary Start a session
// @Description Open a billing session on an available table. The table's rates are snapshotted onto the session.
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body sessionDto.StartSessionRequest false "Start Session Request"
// @Success 201 {object} response.Data[sessionDto.SessionResponse] "Started session"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id}/start_session [post]
func (handler *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartSession")
	defer scope.End()

	id := chi.URLParam(r, "id")
	req := sessionDto.StartSessionRequest{}

	if r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	res, err := handler.sessionService.Start(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// StopSession ends the table's running session and freezes its amounts.
// @Summary Stop the running session
// @Tags Session
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Data[sessionDto.SessionResponse] "Stopped session with frozen amounts"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id}/stop_session [post]
func (handler *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StopSession")
	defer scope.End()

	id := chi.URLParam(r, "id")

	res, err := handler.sessionService.Stop(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to stop session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// AddProduct sells a product onto the running session.
// @Summary Add a product to the running session
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body sessionDto.AddProductRequest true "Add Product Request"
// @Success 200 {object} response.Data[sessionDto.SessionResponse] "Updated session"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id}/add_product [post]
func (handler *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddProduct")
	defer scope.End()

	id := chi.URLParam(r, "id")
	req := sessionDto.AddProductRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.sessionService.AddProduct(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add product to session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RemoveProduct voids a line item on the running session.
// @Summary Remove a line item from the running session
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body sessionDto.RemoveProductRequest true "Remove Product Request"
// @Success 200 {object} response.Data[sessionDto.SessionResponse] "Updated session"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id}/remove_product [post]
func (handler *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveProduct")
	defer scope.End()

	id := chi.URLParam(r, "id")
	req := sessionDto.RemoveProductRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.sessionService.RemoveProduct(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove product from session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateReceipt issues a receipt for the table's latest session, stopping
// it first if still running.
// @Summary Create a receipt
// @Tags Session
// @Produce json
// @Param id path string true "Table ID"
// @Success 201 {object} response.Data[receiptDto.ReceiptResponse] "Issued receipt"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id}/create_receipt [post]
func (handler *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReceipt")
	defer scope.End()

	id := chi.URLParam(r, "id")

	res, err := handler.sessionService.CreateReceipt(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create receipt")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// ResetTable clears the table for the next customer.
// @Summary Reset the table
// @Tags Session
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Message "Table reset successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id}/reset_table [post]
func (handler *Handler) ResetTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResetTable")
	defer scope.End()

	id := chi.URLParam(r, "id")

	if err := handler.sessionService.ResetTable(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reset table")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Table reset successfully")
}
