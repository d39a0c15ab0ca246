//go:build unit

package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"turnos-core/internal/handler/api"
	"turnos-core/internal/infra"
	"turnos-core/internal/usecase/queries"
	"turnos-core/tests/common/httptest"
	queriesmock "turnos-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockAvl  *queriesmock.MockAvailabilityQueries
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAvl = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	handler := api.NewAvailabilityHandler(s.mockAvl)

	s.router.GET("/businesses/:businessID/availability", handler.GetAvailability)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestGetAvailability() {
	businessID := uuid.New()
	serviceID := uuid.New()
	url := fmt.Sprintf("/businesses/%s/availability?service_id=%s&date=2026-03-02", businessID, serviceID)

	s.Run("200 with slots", func() {
		s.mockAvl.EXPECT().GetDaySlots(gomock.Any(), gomock.Any()).
			Return(&queries.DayAvailability{Date: "2026-03-02", Slots: []string{"09:00", "09:30"}}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "", nil)
		s.Equal(http.StatusOK, rec.Code)

		var body map[string]any
		httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal("2026-03-02", body["date"])
		s.Len(body["slots"], 2)
	})

	s.Run("400 without service_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			fmt.Sprintf("/businesses/%s/availability?date=2026-03-02", businessID), nil, "", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("400 without date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			fmt.Sprintf("/businesses/%s/availability?service_id=%s", businessID, serviceID), nil, "", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("400 on non-numeric step", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"&step=abc", nil, "", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("404 when the service is unknown", func() {
		s.mockAvl.EXPECT().GetDaySlots(gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrServiceNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("504 when the store times out", func() {
		s.mockAvl.EXPECT().GetDaySlots(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("load weekly hours", nil, infra.KindTimeout))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "", nil)
		s.Equal(http.StatusGatewayTimeout, rec.Code)
	})
}
