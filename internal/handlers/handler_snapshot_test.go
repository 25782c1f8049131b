package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
	"github.com/pesa-dev/networth_snapshot_service/internal/dto"
	"github.com/pesa-dev/networth_snapshot_service/internal/handlers"
	"github.com/pesa-dev/networth_snapshot_service/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// --- Mock SnapshotService ---
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) WriteSnapshot(ctx context.Context, userID string, date time.Time, accounts []domain.Account, trigger domain.TriggerKind) (*domain.SnapshotResult, error) {
	args := m.Called(ctx, userID, date, accounts, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SnapshotResult), args.Error(1)
}
func (m *MockSnapshotService) AggregateUser(ctx context.Context, userID string, trigger domain.TriggerKind) (*domain.SnapshotResult, error) {
	args := m.Called(ctx, userID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SnapshotResult), args.Error(1)
}
func (m *MockSnapshotService) HandleAccountChange(ctx context.Context, before, after *domain.Account) (bool, error) {
	args := m.Called(ctx, before, after)
	return args.Bool(0), args.Error(1)
}
func (m *MockSnapshotService) GetSnapshot(ctx context.Context, userID string, date time.Time) (*domain.NetWorthSnapshot, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorthSnapshot), args.Error(1)
}
func (m *MockSnapshotService) GetLatestSnapshot(ctx context.Context, userID string) (*domain.NetWorthSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorthSnapshot), args.Error(1)
}
func (m *MockSnapshotService) ListSnapshots(ctx context.Context, userID string, limit int, offset int) ([]domain.NetWorthSnapshot, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NetWorthSnapshot), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.SnapshotSvcFacade = (*MockSnapshotService)(nil)

// --- Mock SweepService ---
type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) RunSweep(ctx context.Context) (*domain.SweepReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepReport), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.SweepSvcFacade = (*MockSweepService)(nil)

// --- Test Suite ---
type SnapshotHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockSnapshotService *MockSnapshotService
	mockSweepService    *MockSweepService
	jwtSecret           string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *SnapshotHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "nws-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *SnapshotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	handlers.RegisterCustomValidations()
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSnapshotService = new(MockSnapshotService)
	suite.mockSweepService = new(MockSweepService)

	// Generous rate so the limiter never interferes with these tests
	triggerLimiter := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 1000})

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterSnapshotRoutes(v1, suite.mockSnapshotService, triggerLimiter)
	handlers.RegisterTriggerRoutes(v1, suite.mockSnapshotService, suite.mockSweepService, triggerLimiter)
}

func (suite *SnapshotHandlerTestSuite) performRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *SnapshotHandlerTestSuite) TestRunSnapshot_Success() {
	userID := uuid.NewString()
	expected := &domain.SnapshotResult{
		TotalNetWorth: decimal.NewFromInt(940),
		AccountCount:  2,
	}

	suite.mockSnapshotService.On("AggregateUser",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		domain.TriggerOnDemand,
	).Return(expected, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/snapshots/run", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RunSnapshotResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Require().NotNil(resp.NetWorth)
	suite.True(resp.NetWorth.Equal(decimal.NewFromInt(940)))
	suite.Require().NotNil(resp.AccountCount)
	suite.Equal(2, *resp.AccountCount)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestRunSnapshot_NoAccounts() {
	userID := uuid.NewString()

	suite.mockSnapshotService.On("AggregateUser",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		domain.TriggerOnDemand,
	).Return(nil, fmt.Errorf("%w: user %s", apperrors.ErrNoAccounts, userID)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/snapshots/run", nil, userID)

	// No accounts is a normal outcome, not an HTTP error
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RunSnapshotResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Nil(resp.NetWorth)
	suite.Nil(resp.AccountCount)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestRunSnapshot_StoreUnavailable() {
	userID := uuid.NewString()

	suite.mockSnapshotService.On("AggregateUser",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		domain.TriggerOnDemand,
	).Return(nil, fmt.Errorf("%w: connection refused", apperrors.ErrStoreUnavailable)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/snapshots/run", nil, userID)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestRunSnapshot_NoToken() {
	w := suite.performRequest(http.MethodPost, "/api/v1/snapshots/run", nil, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSnapshotService.AssertNotCalled(suite.T(), "AggregateUser")
}

func (suite *SnapshotHandlerTestSuite) TestListSnapshots_Success() {
	userID := uuid.NewString()
	snapshots := []domain.NetWorthSnapshot{
		{
			UserID:        userID,
			SnapshotDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			TotalNetWorth: decimal.NewFromInt(940),
			Breakdown:     map[string]domain.BreakdownEntry{},
			Provenance:    domain.TriggerScheduledSweep,
			WrittenAt:     time.Date(2024, 3, 15, 20, 55, 0, 0, time.UTC),
		},
		{
			UserID:        userID,
			SnapshotDate:  time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			TotalNetWorth: decimal.NewFromInt(900),
			Breakdown:     map[string]domain.BreakdownEntry{},
			Provenance:    domain.TriggerOnDemand,
			WrittenAt:     time.Date(2024, 3, 14, 9, 12, 0, 0, time.UTC),
		},
	}

	suite.mockSnapshotService.On("ListSnapshots",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		5,
		0,
	).Return(snapshots, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/snapshots?limit=5", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListSnapshotsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Snapshots, 2)
	suite.Equal("2024-03-15", resp.Snapshots[0].SnapshotDate)
	suite.Equal(string(domain.TriggerScheduledSweep), resp.Snapshots[0].Provenance)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestGetLatestSnapshot_NotFound() {
	userID := uuid.NewString()

	suite.mockSnapshotService.On("GetLatestSnapshot",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
	).Return(nil, fmt.Errorf("%w: no snapshots", apperrors.ErrNotFound)).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/snapshots/latest", nil, userID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestGetSnapshot_InvalidDate() {
	userID := uuid.NewString()

	w := suite.performRequest(http.MethodGet, "/api/v1/snapshots/not-a-date", nil, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSnapshotService.AssertNotCalled(suite.T(), "GetSnapshot")
}

func (suite *SnapshotHandlerTestSuite) TestGetSnapshot_Success() {
	userID := uuid.NewString()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	snapshot := &domain.NetWorthSnapshot{
		UserID:        userID,
		SnapshotDate:  date,
		TotalNetWorth: decimal.NewFromInt(940),
		Breakdown: map[string]domain.BreakdownEntry{
			"acc-1": {
				Name:             "Checking",
				CurrencyCode:     "KES",
				Balance:          decimal.NewFromInt(100),
				ConvertedBalance: decimal.NewFromInt(100),
			},
		},
		Provenance: domain.TriggerOnDemand,
		WrittenAt:  time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}

	suite.mockSnapshotService.On("GetSnapshot",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		date,
	).Return(snapshot, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/snapshots/2024-03-15", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SnapshotResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2024-03-15", resp.SnapshotDate)
	suite.True(resp.TotalNetWorth.Equal(decimal.NewFromInt(940)))
	suite.Contains(resp.Breakdown, "acc-1")
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestAccountChange_Suppressed() {
	userID := uuid.NewString()
	accountID := uuid.NewString()
	payload := dto.AccountPayload{
		AccountID:    accountID,
		UserID:       userID,
		Name:         "Savings",
		CurrencyCode: "KES",
		Balance:      decimal.NewFromInt(500),
	}
	req := dto.AccountChangeRequest{Before: &payload, After: &payload}

	suite.mockSnapshotService.On("HandleAccountChange",
		mock.AnythingOfType("*context.valueCtx"),
		mock.AnythingOfType("*domain.Account"),
		mock.AnythingOfType("*domain.Account"),
	).Return(false, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/internal/account-change", req, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountChangeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Written)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestAccountChange_Written() {
	userID := uuid.NewString()
	accountID := uuid.NewString()
	before := dto.AccountPayload{
		AccountID:    accountID,
		UserID:       userID,
		Name:         "Savings",
		CurrencyCode: "KES",
		Balance:      decimal.NewFromInt(500),
	}
	after := before
	after.Balance = decimal.NewFromInt(750)
	req := dto.AccountChangeRequest{Before: &before, After: &after}

	suite.mockSnapshotService.On("HandleAccountChange",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(a *domain.Account) bool {
			return a != nil && a.Balance.Equal(decimal.NewFromInt(500))
		}),
		mock.MatchedBy(func(a *domain.Account) bool {
			return a != nil && a.Balance.Equal(decimal.NewFromInt(750))
		}),
	).Return(true, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/internal/account-change", req, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountChangeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Written)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestAccountChange_InvalidCurrency() {
	userID := uuid.NewString()
	payload := dto.AccountPayload{
		AccountID:    uuid.NewString(),
		UserID:       userID,
		CurrencyCode: "KESX", // not a 3-letter code
		Balance:      decimal.NewFromInt(10),
	}
	req := dto.AccountChangeRequest{After: &payload}

	w := suite.performRequest(http.MethodPost, "/api/v1/internal/account-change", req, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSnapshotService.AssertNotCalled(suite.T(), "HandleAccountChange")
}

func (suite *SnapshotHandlerTestSuite) TestRunSweep_Success() {
	userID := uuid.NewString()
	report := &domain.SweepReport{
		RunID:          uuid.NewString(),
		StartedAt:      time.Date(2024, 3, 15, 20, 55, 0, 0, time.UTC),
		FinishedAt:     time.Date(2024, 3, 15, 20, 55, 30, 0, time.UTC),
		UsersProcessed: 3,
		Succeeded:      2,
		Skipped:        1,
		Failures:       []domain.SweepFailure{},
	}

	suite.mockSweepService.On("RunSweep",
		mock.AnythingOfType("*context.valueCtx"),
	).Return(report, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/internal/sweep", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SweepReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.UsersProcessed)
	suite.Equal(2, resp.Succeeded)
	suite.Equal(1, resp.Skipped)
	suite.Empty(resp.Failures)
	suite.mockSweepService.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestRunSweep_StoreUnavailable() {
	userID := uuid.NewString()

	suite.mockSweepService.On("RunSweep",
		mock.AnythingOfType("*context.valueCtx"),
	).Return(nil, fmt.Errorf("%w: listing users", apperrors.ErrStoreUnavailable)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/internal/sweep", nil, userID)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.mockSweepService.AssertExpectations(suite.T())
}

func TestSnapshotHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotHandlerTestSuite))
}
