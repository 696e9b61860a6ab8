package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/security"
)

// MockRentingService
type MockRentingService struct {
	mock.Mock
}

func (m *MockRentingService) GetInventory(ctx context.Context) (map[domain.Section][]domain.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Section][]domain.InventoryItem), args.Error(1)
}
func (m *MockRentingService) GetAvailableItems(ctx context.Context) ([]domain.ConstrainedInventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConstrainedInventoryItem), args.Error(1)
}
func (m *MockRentingService) GetUserRentals(ctx context.Context, userUID string) ([]domain.RentingData, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentingData), args.Error(1)
}
func (m *MockRentingService) SubmitRental(ctx context.Context, records []domain.RentingData) ([]string, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRentingService) ReturnRental(ctx context.Context, record *domain.RentingData, returnedByUID string) (*domain.RentingData, error) {
	args := m.Called(ctx, record, returnedByUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentingData), args.Error(1)
}
func (m *MockRentingService) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	testClimbing = domain.Section{ID: "climbing", DisplayName: "Climbing"}
	testRope     = domain.InventoryItem{ID: "rope60", DisplayName: "Rope 60m", Section: testClimbing, Quantity: 10}
)

func newTestServer(t *testing.T, svc *MockRentingService) (*httptest.Server, string) {
	t.Helper()
	tokens := security.NewTokenManager("test-secret")
	server := httptest.NewServer(NewRouter(svc, tokens))
	t.Cleanup(server.Close)

	token, err := tokens.GenerateAccessToken("uid-1", "member@example.org")
	require.NoError(t, err)
	return server, token
}

func doRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRentingHandler_Auth(t *testing.T) {
	svc := new(MockRentingService)
	server, _ := newTestServer(t, svc)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRentingHandler_GetInventory(t *testing.T) {
	svc := new(MockRentingService)
	server, token := newTestServer(t, svc)

	svc.On("GetInventory", mock.Anything).Return(map[domain.Section][]domain.InventoryItem{
		testClimbing: {testRope},
	}, nil).Once()

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/inventory", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload []sectionPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "climbing", payload[0].Section.ID)
	require.Len(t, payload[0].Items, 1)
	assert.Equal(t, "rope60", payload[0].Items[0].ID)
}

func TestRentingHandler_GetAvailableItems(t *testing.T) {
	svc := new(MockRentingService)
	server, token := newTestServer(t, svc)

	svc.On("GetAvailableItems", mock.Anything).Return([]domain.ConstrainedInventoryItem{
		{Item: testRope, AvailableAmount: 7},
	}, nil).Once()

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/inventory/available", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var available []domain.ConstrainedInventoryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&available))
	require.Len(t, available, 1)
	assert.Equal(t, int64(7), available[0].AvailableAmount)
}

func TestRentingHandler_GetAvailableItems_RemoteDown(t *testing.T) {
	svc := new(MockRentingService)
	server, token := newTestServer(t, svc)

	svc.On("GetAvailableItems", mock.Anything).Return(nil, domain.ErrRemoteUnavailable).Once()

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/inventory/available", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRentingHandler_Checkout(t *testing.T) {
	t.Run("Valid checkout resolves items for the member", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		svc.On("GetInventory", mock.Anything).Return(map[domain.Section][]domain.InventoryItem{
			testClimbing: {testRope},
		}, nil).Once()
		svc.On("SubmitRental", mock.Anything, mock.MatchedBy(func(records []domain.RentingData) bool {
			return len(records) == 1 && records[0].UserUID == "uid-1" && records[0].Item.ID == "rope60" && records[0].Amount == 2
		})).Return([]string{"id-1"}, nil).Once()

		body, _ := json.Marshal(checkoutRequest{Records: []checkoutRecord{{ItemID: "rope60", Amount: 2}}})
		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals", token, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var out checkoutResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, []string{"id-1"}, out.IDs)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown item id", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		svc.On("GetInventory", mock.Anything).Return(map[domain.Section][]domain.InventoryItem{
			testClimbing: {testRope},
		}, nil).Once()

		body, _ := json.Marshal(checkoutRequest{Records: []checkoutRecord{{ItemID: "ghost", Amount: 1}}})
		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals", token, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "SubmitRental", mock.Anything, mock.Anything)
	})

	t.Run("Validation failure answers 400", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		svc.On("GetInventory", mock.Anything).Return(map[domain.Section][]domain.InventoryItem{
			testClimbing: {testRope},
		}, nil).Once()
		svc.On("SubmitRental", mock.Anything, mock.Anything).
			Return(nil, &domain.ValidationError{Index: 0, Reason: "amount must be positive"}).Once()

		body, _ := json.Marshal(checkoutRequest{Records: []checkoutRecord{{ItemID: "rope60", Amount: 0}}})
		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals", token, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Partial success answers 502 with committed ids", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		svc.On("GetInventory", mock.Anything).Return(map[domain.Section][]domain.InventoryItem{
			testClimbing: {testRope},
		}, nil).Once()
		svc.On("SubmitRental", mock.Anything, mock.Anything).
			Return([]string{"id-1"}, domain.ErrRemoteUnavailable).Once()

		body, _ := json.Marshal(checkoutRequest{Records: []checkoutRecord{
			{ItemID: "rope60", Amount: 1},
			{ItemID: "rope60", Amount: 1},
		}})
		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals", token, body)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var out checkoutResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, []string{"id-1"}, out.IDs)
		assert.NotEmpty(t, out.Error)
	})
}

func TestRentingHandler_Return(t *testing.T) {
	rental := domain.RentingData{ID: "r1", UserUID: "uid-1", Item: testRope, Amount: 1}

	t.Run("Marks own rental returned", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		returned := rental
		returned.Returned = &domain.ReturnData{ReturnedByUID: "uid-1"}

		svc.On("GetUserRentals", mock.Anything, "uid-1").Return([]domain.RentingData{rental}, nil).Once()
		svc.On("ReturnRental", mock.Anything, &rental, "uid-1").Return(&returned, nil).Once()

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals/r1/return", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out domain.RentingData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.NotNil(t, out.Returned)
	})

	t.Run("Unknown rental answers 404", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		svc.On("GetUserRentals", mock.Anything, "uid-1").Return([]domain.RentingData{}, nil).Once()

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals/ghost/return", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Double return answers 409", func(t *testing.T) {
		svc := new(MockRentingService)
		server, token := newTestServer(t, svc)

		svc.On("GetUserRentals", mock.Anything, "uid-1").Return([]domain.RentingData{rental}, nil).Once()
		svc.On("ReturnRental", mock.Anything, &rental, "uid-1").Return(nil, domain.ErrAlreadyReturned).Once()

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/rentals/r1/return", token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestRentingHandler_InvalidateCache(t *testing.T) {
	svc := new(MockRentingService)
	server, token := newTestServer(t, svc)

	svc.On("Invalidate", mock.Anything).Return(nil).Once()

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/cache/invalidate", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
