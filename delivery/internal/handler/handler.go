package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	md "github.com/Astemirdum/archive-delivery/pkg/middleware"
	"github.com/Astemirdum/archive-delivery/pkg/validate"
	_ "github.com/Astemirdum/archive-delivery/swagger"
)

type Handler struct {
	svc Coordinator
	log *zap.Logger
}

func New(svc Coordinator, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/:kind", h.Submit)
	api.GET("/:kind/:id", h.Get)
	api.PUT("/:kind/:id", h.Edit)
	api.DELETE("/:kind/:id", h.Delete)
	api.POST("/:kind/:id/status", h.AdvanceStatus)
	api.POST("/:kind/:id/print", h.Print)
	api.POST("/payments/:id", h.MarkPaid)

	api.GET("/holdings/:id", h.GetHolding)
	api.POST("/holdings/:id/mark", h.MarkItem)
	api.POST("/holdings/:id/hold", h.MarkItemOnHold)
	api.DELETE("/holdings/:id/hold", h.MarkItemActive)
	api.GET("/holdings/:id/active", h.GetActiveFor)
	api.GET("/holdings/:id/requests", h.ListActive)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

var kinds = map[string]model.Kind{
	"reservations":  model.KindReservation,
	"reproductions": model.KindReproduction,
}

func kindParam(c echo.Context) (model.Kind, error) {
	kind, ok := kinds[c.Param("kind")]
	if !ok {
		return "", echo.NewHTTPError(http.StatusNotFound, errs.ErrUnknownKind.Error())
	}
	return kind, nil
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

func modeParam(c echo.Context) (model.Mode, error) {
	mode := model.Mode(c.QueryParam("mode"))
	switch mode {
	case "":
		return model.ModeAll, nil
	case model.ModeAll, model.ModeOnlyOnHold, model.ModeOnlyNonOnHold:
		return mode, nil
	default:
		return "", echo.NewHTTPError(http.StatusBadRequest, "mode is invalid")
	}
}

func (h *Handler) bindRequest(c echo.Context, kind model.Kind) (model.Request, error) {
	var in RequestInput
	if err := c.Bind(&in); err != nil {
		return model.Request{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(in); err != nil {
		return model.Request{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if kind == model.KindReservation && in.Date == nil {
		return model.Request{}, echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	return in.toModel(kind), nil
}

// Submit
// @Summary      Submit request
// @Description  Creates a reservation or reproduction and takes its holdings
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        kind     path  string        true  "reservations or reproductions"
// @Param        payload  body  RequestInput  true  "request"
// @Success      201  {object}  model.Request
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  errs.ValidationErrorResponse "holding closed or in use"
// @Router       /api/v1/{kind} [post]
func (h *Handler) Submit(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	req, err := h.bindRequest(c, kind)
	if err != nil {
		return err
	}
	out, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) Get(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	req, err := h.svc.Get(c.Request().Context(), kind, id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, req)
}

// Edit
// @Summary      Edit request
// @Description  Replaces the request's editable fields and claims; an empty claim list deletes it
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        kind     path  string        true  "reservations or reproductions"
// @Param        id       path  int           true  "request id"
// @Param        payload  body  RequestInput  true  "desired state"
// @Success      200  {object}  model.Request
// @Success      204
// @Failure      409  {object}  errs.ValidationErrorResponse
// @Failure      422  {object}  errs.ValidationErrorResponse "order details incomplete"
// @Router       /api/v1/{kind}/{id} [put]
func (h *Handler) Edit(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	desired, err := h.bindRequest(c, kind)
	if err != nil {
		return err
	}
	out, err := h.svc.Edit(c.Request().Context(), kind, id, desired)
	if err != nil {
		return h.fail(err)
	}
	if len(desired.Claims) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Delete(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), kind, id); err != nil {
		return h.fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdvanceStatus
// @Summary      Advance status
// @Description  Moves the request forward; a status at or behind the current one is ignored
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        kind     path  string       true  "reservations or reproductions"
// @Param        id       path  int          true  "request id"
// @Param        payload  body  StatusInput  true  "target status"
// @Success      200  {object}  model.Request
// @Failure      400  {object}  map[string]any "unknown status"
// @Router       /api/v1/{kind}/{id}/status [post]
func (h *Handler) AdvanceStatus(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := h.svc.AdvanceStatus(c.Request().Context(), kind, id, in.Status)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Print(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var force bool
	if v := c.QueryParam("force"); v != "" {
		if force, err = strconv.ParseBool(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "force is invalid")
		}
	}
	n, err := h.svc.Print(c.Request().Context(), kind, id, force)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusAccepted, PrintResponse{Queued: n})
}

func (h *Handler) MarkPaid(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in PaymentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := h.svc.MarkPaid(c.Request().Context(), id, in.OrderRef)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) GetHolding(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	hold, err := h.svc.GetHolding(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, hold)
}

// MarkItem
// @Summary      Scan holding
// @Description  Moves the holding one step along its owner's cycle
// @Tags         holdings
// @Produce      json
// @Param        id  path  int  true  "holding id"
// @Success      200  {object}  model.Holding
// @Failure      404  {object}  map[string]any "no active request"
// @Router       /api/v1/holdings/{id}/mark [post]
func (h *Handler) MarkItem(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	hold, err := h.svc.MarkItem(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, hold)
}

func (h *Handler) MarkItemOnHold(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	held, err := h.svc.MarkItemOnHold(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, held)
}

func (h *Handler) MarkItemActive(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ref, err := h.svc.MarkItemActive(c.Request().Context(), id)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, ref)
}

func (h *Handler) GetActiveFor(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	mode, err := modeParam(c)
	if err != nil {
		return err
	}
	cand, err := h.svc.GetActiveFor(c.Request().Context(), id, mode)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, cand)
}

// ListActive lists every active request on the holding, owner first.
func (h *Handler) ListActive(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	mode, err := modeParam(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListActive(c.Request().Context(), id, mode)
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(http.StatusOK, list)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrNoClaims),
		errors.Is(err, errs.ErrUnknownStatus),
		errors.Is(err, errs.ErrUnknownKind),
		errors.Is(err, errs.ErrDuplicateClaim):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrClosed),
		errors.Is(err, errs.ErrInUse),
		errors.Is(err, errs.ErrAlreadyOnHold),
		errors.Is(err, errs.ErrNoHold),
		errors.Is(err, errs.ErrNotInUse),
		errors.Is(err, errs.ErrOwnershipConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrIncompleteDetails):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(err error) error {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		h.log.Error("coordinator", zap.Error(err))
	}
	var he *errs.HoldingError
	if errors.As(err, &he) {
		resp := errs.ValidationErrorResponse{Message: he.Err.Error()}
		resp.Errors.HoldingID = he.HoldingID
		resp.Errors.Signature = he.Signature
		return echo.NewHTTPError(code, resp)
	}
	return echo.NewHTTPError(code, err.Error())
}
