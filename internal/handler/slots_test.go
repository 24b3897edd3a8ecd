package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"prefslots/internal/models"
	"prefslots/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSlotService is a mock implementation of the SlotService interface
type MockSlotService struct {
	mock.Mock
}

func (m *MockSlotService) Table(ctx context.Context) (map[string][]models.Slot, error) {
	args := m.Called(ctx)
	table, _ := args.Get(0).(map[string][]models.Slot)
	return table, args.Error(1)
}

func (m *MockSlotService) Slots(ctx context.Context, prefecture string) ([]models.Slot, error) {
	args := m.Called(ctx, prefecture)
	slots, _ := args.Get(0).([]models.Slot)
	return slots, args.Error(1)
}

var tokyoSlots = []models.Slot{
	{ID: 1, LeftPct: 75.2, TopPct: 46.1, City: "千代田区"},
	{ID: 2, LeftPct: 70.4, TopPct: 52.3, City: "港区"},
}

const tokyoSlotsJSON = `[{"id":1,"leftPct":75.2,"topPct":46.1,"city":"千代田区"},{"id":2,"leftPct":70.4,"topPct":52.3,"city":"港区"}]`

func TestSlotHandler_Table(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		mockTable      map[string][]models.Slot
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "published table",
			mockTable:      map[string][]models.Slot{"東京都": tokyoSlots},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"東京都":` + tokyoSlotsJSON + `}`,
		},
		{
			name:           "empty table",
			mockTable:      map[string][]models.Slot{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{}`,
		},
		{
			name:           "service error",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockSlotService)
			handler := NewSlotHandler(mockSvc)
			mockSvc.On("Table", mock.Anything).Return(tt.mockTable, tt.mockError)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/slots", nil)

			// Execute
			handler.Table(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSlotHandler_Slots(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		prefecture     string
		mockSlots      []models.Slot
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing prefecture",
			prefecture:     "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"missing prefecture"}`,
		},
		{
			name:           "known prefecture",
			prefecture:     "東京都",
			mockSlots:      tokyoSlots,
			expectedStatus: http.StatusOK,
			expectedBody:   tokyoSlotsJSON,
		},
		{
			name:           "unknown prefecture",
			prefecture:     "沖縄県",
			mockError:      fmt.Errorf("service: %w", models.ErrPrefectureNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"prefecture not found"}`,
		},
		{
			name:           "blank prefecture",
			prefecture:     " ",
			mockError:      fmt.Errorf("service: %w", service.ErrInvalidPrefecture),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid prefecture"}`,
		},
		{
			name:           "service error",
			prefecture:     "東京都",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockSlotService)
			handler := NewSlotHandler(mockSvc)
			if tt.prefecture != "" {
				mockSvc.On("Slots", mock.Anything, tt.prefecture).Return(tt.mockSlots, tt.mockError)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/slots/", nil)
			c.Params = gin.Params{{Key: "prefecture", Value: tt.prefecture}}

			// Execute
			handler.Slots(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}

// emptyRepository has no published layouts.
type emptyRepository struct{}

func (emptyRepository) ListLayouts(context.Context) ([]models.PrefectureLayout, error) {
	return nil, nil
}

func (emptyRepository) FindLayout(context.Context, string) (*models.PrefectureLayout, error) {
	return nil, models.ErrPrefectureNotFound
}

func TestRoutes_PrefectureErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := emptyRepository{}
	r := gin.New()
	r.GET("/slots/:prefecture", NewSlotHandler(service.NewSlotService(repo)).Slots)
	r.GET("/project", NewProjectHandler(service.NewProjectionService(repo)).Project)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "blank slots prefecture",
			target:         "/slots/%20",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid prefecture"}`,
		},
		{
			name:           "blank project prefecture",
			target:         "/project?prefecture=%20&lat=35&lng=135",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid prefecture"}`,
		},
		{
			name:           "unknown slots prefecture",
			target:         "/slots/%E6%B2%96%E7%B8%84%E7%9C%8C",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"prefecture not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
