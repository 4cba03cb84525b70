package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/handler"
	service_mocks "github.com/Astemirdum/archive-delivery/delivery/internal/handler/mocks"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(r *service_mocks.MockCoordinator)

type testCase struct {
	name         string
	method       string
	target       string
	body         string
	mockBehavior mockBehavior
	response     response
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCoordinator(c)
			log := zap.NewExample().Named("test")
			e := handler.New(svc, log).NewRouter()

			body := http.NoBody
			r := httptest.NewRequest(tt.method, tt.target, body)
			if tt.body != "" {
				r = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			}
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func noCalls(*service_mocks.MockCoordinator) {}

func TestHandler_Submit(t *testing.T) {
	t.Parallel()
	visit := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	want := model.Request{
		Kind:        model.KindReservation,
		Name:        "Jo",
		Email:       "jo@example.org",
		Reservation: &model.ReservationDetails{Date: visit},
		Claims:      []model.Claim{{HoldingID: 3}},
	}
	const body = `{"name":"Jo","email":"jo@example.org","date":"2026-03-02T09:00:00Z","claims":[{"holdingId":3}]}`

	run(t, []testCase{
		{
			name:   "ok",
			method: http.MethodPost,
			target: "/api/v1/reservations",
			body:   body,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Submit(gomock.Any(), want).Return(model.Request{
					ID: 7, Kind: model.KindReservation, Status: model.StatusPending,
					Name: "Jo", Email: "jo@example.org",
					Claims: []model.Claim{{ID: 1, RequestID: 7, HoldingID: 3, Signature: "ARCH-3"}},
				}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":7,"kind":"RESERVATION","status":"PENDING","createdAt":"0001-01-01T00:00:00Z","statusChangedAt":"0001-01-01T00:00:00Z","name":"Jo","email":"jo@example.org","claims":[{"id":1,"requestId":7,"holdingId":3,"signature":"ARCH-3","completed":false,"onHold":false,"printed":false,"inSor":false}]}`,
			},
		},
		{
			name:   "err. holding in use",
			method: http.MethodPost,
			target: "/api/v1/reservations",
			body:   body,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Submit(gomock.Any(), want).
					Return(model.Request{}, errs.Holding(errs.ErrInUse, 3, "ARCH-3"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"holding is in use by another request","errors":{"holdingId":3,"signature":"ARCH-3"}}`,
			},
		},
		{
			name:   "err. no claims",
			method: http.MethodPost,
			target: "/api/v1/reproductions",
			body:   `{"name":"Sam","email":"sam@example.org","claims":[]}`,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(model.Request{}, errs.ErrNoClaims)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"request has no holdings"}`,
			},
		},
		{
			name:         "err. date required",
			method:       http.MethodPost,
			target:       "/api/v1/reservations",
			body:         `{"name":"Jo","email":"jo@example.org","claims":[{"holdingId":3}]}`,
			mockBehavior: noCalls,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"date is required"}`,
			},
		},
		{
			name:         "err. invalid email",
			method:       http.MethodPost,
			target:       "/api/v1/reservations",
			body:         `{"name":"Jo","email":"jo","date":"2026-03-02T09:00:00Z","claims":[{"holdingId":3}]}`,
			mockBehavior: noCalls,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'RequestInput.Email' Error:Field validation for 'Email' failed on the 'email' tag"}`,
			},
		},
		{
			name:         "err. unknown kind",
			method:       http.MethodPost,
			target:       "/api/v1/loans",
			body:         body,
			mockBehavior: noCalls,
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"unknown request kind"}`,
			},
		},
	})
}

func TestHandler_EditAndStatus(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:   "edit with no claims deletes",
			method: http.MethodPut,
			target: "/api/v1/reproductions/4",
			body:   `{"name":"Sam","email":"sam@example.org","claims":[]}`,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Edit(gomock.Any(), model.KindReproduction, int64(4), gomock.Any()).
					Return(model.Request{}, nil)
			},
			response: response{expectedCode: http.StatusNoContent},
		},
		{
			name:   "edit incomplete details",
			method: http.MethodPut,
			target: "/api/v1/reproductions/4",
			body:   `{"name":"Sam","email":"sam@example.org","status":"ACTIVE","claims":[{"holdingId":9}]}`,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Edit(gomock.Any(), model.KindReproduction, int64(4), gomock.Any()).
					Return(model.Request{}, errs.Holding(errs.ErrIncompleteDetails, 9, "ARCH-9"))
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"reproduction order details are incomplete","errors":{"holdingId":9,"signature":"ARCH-9"}}`,
			},
		},
		{
			name:   "advance unknown status",
			method: http.MethodPost,
			target: "/api/v1/reservations/5/status",
			body:   `{"status":"LOST"}`,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().AdvanceStatus(gomock.Any(), model.KindReservation, int64(5), model.Status("LOST")).
					Return(model.Request{}, errors.Wrapf(errs.ErrUnknownStatus, "%s status %q", model.KindReservation, "LOST"))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"RESERVATION status \"LOST\": unknown status"}`,
			},
		},
		{
			name:         "advance without status",
			method:       http.MethodPost,
			target:       "/api/v1/reservations/5/status",
			body:         `{}`,
			mockBehavior: noCalls,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'StatusInput.Status' Error:Field validation for 'Status' failed on the 'required' tag"}`,
			},
		},
		{
			name:         "bad id",
			method:       http.MethodDelete,
			target:       "/api/v1/reservations/abc",
			mockBehavior: noCalls,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
		{
			name:   "delete missing",
			method: http.MethodDelete,
			target: "/api/v1/reservations/5",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Delete(gomock.Any(), model.KindReservation, int64(5)).Return(errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:   "force print",
			method: http.MethodPost,
			target: "/api/v1/reservations/5/print?force=true",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().Print(gomock.Any(), model.KindReservation, int64(5), true).Return(2, nil)
			},
			response: response{
				expectedCode: http.StatusAccepted,
				expectedBody: `{"queued":2}`,
			},
		},
		{
			name:   "payment",
			method: http.MethodPost,
			target: "/api/v1/payments/4",
			body:   `{"orderRef":"ORD-1"}`,
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().MarkPaid(gomock.Any(), int64(4), "ORD-1").
					Return(model.Request{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	})
}

func TestHandler_Holdings(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:   "mark item",
			method: http.MethodPost,
			target: "/api/v1/holdings/3/mark",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().MarkItem(gomock.Any(), int64(3)).Return(model.Holding{
					ID: 3, RecordID: 1, Signature: "ARCH-3",
					Status: model.HoldingInUse, UsageRestriction: model.RestrictionOpen,
				}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":3,"recordId":1,"signature":"ARCH-3","status":"IN_USE","usageRestriction":"OPEN","updatedAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name:   "hold twice",
			method: http.MethodPost,
			target: "/api/v1/holdings/3/hold",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().MarkItemOnHold(gomock.Any(), int64(3)).
					Return(model.Candidate{}, errs.Holding(errs.ErrAlreadyOnHold, 3, "ARCH-3"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"holding is already on hold","errors":{"holdingId":3,"signature":"ARCH-3"}}`,
			},
		},
		{
			name:   "release hold",
			method: http.MethodDelete,
			target: "/api/v1/holdings/3/hold",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().MarkItemActive(gomock.Any(), int64(3)).
					Return(model.Ref{Kind: model.KindReservation, ID: 7}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"kind":"RESERVATION","id":7}`,
			},
		},
		{
			name:   "active owner on hold only",
			method: http.MethodGet,
			target: "/api/v1/holdings/3/active?mode=ONLY_ON_HOLD",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().GetActiveFor(gomock.Any(), int64(3), model.ModeOnlyOnHold).
					Return(model.Candidate{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "bad mode",
			method:       http.MethodGet,
			target:       "/api/v1/holdings/3/active?mode=SOME",
			mockBehavior: noCalls,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"mode is invalid"}`,
			},
		},
		{
			name:   "list defaults to all",
			method: http.MethodGet,
			target: "/api/v1/holdings/3/requests",
			mockBehavior: func(r *service_mocks.MockCoordinator) {
				r.EXPECT().ListActive(gomock.Any(), int64(3), model.ModeAll).Return([]model.Candidate{}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
		},
	})
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	run(t, []testCase{{
		name:         "ok",
		method:       http.MethodGet,
		target:       "/manage/health",
		mockBehavior: noCalls,
		response:     response{expectedCode: http.StatusOK, expectedBody: "OK"},
	}})
}
