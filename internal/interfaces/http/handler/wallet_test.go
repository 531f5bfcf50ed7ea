package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	treasuryapp "github.com/gestorloja/backend/internal/application/treasury"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/gestorloja/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockWalletRepository implements treasury.WalletRepository for testing
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Save(ctx context.Context, wallet *treasury.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindAll(ctx context.Context) ([]*treasury.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*treasury.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupWalletRouter(repo treasury.WalletRepository) *gin.Engine {
	router := gin.New()
	service := treasuryapp.NewWalletService(repo, nil, nil, nil, zap.NewNop())
	h := NewWalletHandler(service)
	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	return router
}

func mustNewWallet(t *testing.T, name string, sortOrder int) *treasury.Wallet {
	t.Helper()
	wallet, err := treasury.NewWallet(name, sortOrder)
	require.NoError(t, err)
	return wallet
}

func TestWalletHandler_Create(t *testing.T) {
	repo := new(MockWalletRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*treasury.Wallet")).Return(nil)

	router := setupWalletRouter(repo)

	payload, _ := json.Marshal(map[string]any{"name": "Conta Stone", "sort_order": 2})
	req := httptest.NewRequest("POST", "/api/v1/wallets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Conta Stone", data["name"])
	assert.Equal(t, float64(2), data["sort_order"])
	repo.AssertExpectations(t)
}

func TestWalletHandler_Create_MissingName(t *testing.T) {
	router := setupWalletRouter(new(MockWalletRepository))

	req := httptest.NewRequest("POST", "/api/v1/wallets", bytes.NewReader([]byte(`{"sort_order":1}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletHandler_Get(t *testing.T) {
	wallet := mustNewWallet(t, "Caixa da loja", 0)

	repo := new(MockWalletRepository)
	repo.On("FindByID", mock.Anything, wallet.ID).Return(wallet, nil)

	router := setupWalletRouter(repo)

	req := httptest.NewRequest("GET", "/api/v1/wallets/"+wallet.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Caixa da loja", data["name"])
}

func TestWalletHandler_Get_NotFound(t *testing.T) {
	repo := new(MockWalletRepository)
	repo.On("FindByID", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("NOT_FOUND", "Wallet not found"))

	router := setupWalletRouter(repo)

	req := httptest.NewRequest("GET", "/api/v1/wallets/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWalletHandler_List(t *testing.T) {
	wallets := []*treasury.Wallet{
		mustNewWallet(t, "Caixa da loja", 0),
		mustNewWallet(t, "Conta PagSeguro", 1),
	}

	repo := new(MockWalletRepository)
	repo.On("FindAll", mock.Anything).Return(wallets, nil)

	router := setupWalletRouter(repo)

	req := httptest.NewRequest("GET", "/api/v1/wallets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp.Data.([]any)
	assert.Len(t, items, 2)
}

func TestWalletHandler_Update(t *testing.T) {
	wallet := mustNewWallet(t, "Caixa", 0)

	repo := new(MockWalletRepository)
	repo.On("FindByID", mock.Anything, wallet.ID).Return(wallet, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*treasury.Wallet")).Return(nil)

	router := setupWalletRouter(repo)

	payload, _ := json.Marshal(map[string]any{"name": "Caixa principal", "sort_order": 3})
	req := httptest.NewRequest("PUT", "/api/v1/wallets/"+wallet.ID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Caixa principal", data["name"])
	repo.AssertExpectations(t)
}
