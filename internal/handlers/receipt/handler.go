package receipt

import (
	"net/http"
	"pscafe/infras/otel"
	"pscafe/internal/domains/receipt/model"
	"pscafe/internal/domains/receipt/service"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Receipt
	otel    otel.Otel
}

func New(service service.Receipt, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/receipts", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetReceipts)
		routerGroup.Get("/{id}", handler.GetReceiptByID)
	})
}

// GetReceipts lists issued receipts.
// @Summary Get all receipts
// @Tags Receipt
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param session_id query string false "Filter by session ID"
// @Param receipt_number query string false "Filter by receipt number"
// @Success 200 {object} response.Data[dto.GetReceiptsResponse] "List of receipts"
// @Failure 500 {object} response.Error
// @Router /v1/receipts [get]
func (handler *Handler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReceipts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if sessionID := r.URL.Query().Get(model.FieldSessionID); sessionID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldSessionID,
			Operator: gDto.FilterOperatorEq,
			Value:    sessionID,
		})
	}

	if number := r.URL.Query().Get(model.FieldReceiptNumber); number != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldReceiptNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    number,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get receipts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetReceiptByID retrieves one receipt with its session snapshot.
// @Summary Get receipt by ID
// @Tags Receipt
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.Data[dto.ReceiptResponse] "Receipt detail"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/receipts/{id} [get]
func (handler *Handler) GetReceiptByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReceiptByID")
	defer scope.End()

	id := chi.URLParam(r, "id")

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get receipt")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
