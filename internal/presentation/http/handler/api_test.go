package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/billify/billify-api/internal/application/service"
	"github.com/billify/billify-api/internal/config"
	"github.com/billify/billify-api/internal/domain/entity"
	"github.com/billify/billify-api/internal/infrastructure/repository"
	"github.com/billify/billify-api/internal/presentation/http/handler"
	"github.com/billify/billify-api/internal/presentation/http/routes"
	"github.com/billify/billify-api/pkg/pdf"
	"github.com/billify/billify-api/pkg/utils"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.Invoice{},
		&entity.IdempotencyKey{},
	))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "billify-api-test", Env: "test", Port: "0"},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour, RefreshExpiryHours: 24 * time.Hour},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	exporter := pdf.NewExporter(pdf.NewFpdfEngine(), 10*time.Second)

	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, exporter, service.InvoiceServiceOptions{
		TaxRate:        decimal.RequireFromString("0.18"),
		CurrencySymbol: "$",
		Location:       time.UTC,
		IssuerName:     "Billify",
	})

	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
	}

	return routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Jordan Doe",
		"email":    email,
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	router := setupRouter(t)

	t.Run("register", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"name":     "Jordan Doe",
			"email":    "jordan@example.com",
			"password": "s3cretpass",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "jordan@example.com")
		assert.NotContains(t, w.Body.String(), "s3cretpass")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"name":     "Jordan Clone",
			"email":    "jordan@example.com",
			"password": "s3cretpass",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"name":     "Shorty",
			"email":    "short@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login with valid credentials", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "jordan@example.com",
			"password": "s3cretpass",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "jordan@example.com",
			"password": "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "nobody@example.com",
			"password": "s3cretpass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me requires auth", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns profile", func(t *testing.T) {
		token := registerAndLogin(t, router, "profile@example.com")
		w := doJSON(router, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "profile@example.com")
	})
}

func TestProductCRUD(t *testing.T) {
	router := setupRouter(t)
	token := registerAndLogin(t, router, "catalog@example.com")

	var productID string

	t.Run("create", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/products", token, gin.H{
			"name":     "Blue Widget",
			"quantity": 5,
			"rate":     19.99,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Data struct {
				Product struct {
					ID   string  `json:"id"`
					Slug string  `json:"slug"`
					Rate float64 `json:"rate"`
				} `json:"product"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		productID = resp.Data.Product.ID
		assert.Equal(t, "blue-widget", resp.Data.Product.Slug)
		assert.InDelta(t, 19.99, resp.Data.Product.Rate, 0.001)
	})

	t.Run("duplicate name gets a distinct slug", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/products", token, gin.H{
			"name":     "Blue Widget",
			"quantity": 1,
			"rate":     9.99,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "blue-widget-")
	})

	t.Run("list", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/products?per_page=10", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Blue Widget")
		assert.Contains(t, w.Body.String(), `"total":2`)
	})

	t.Run("search", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/products?search=blue", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Blue Widget")

		w = doJSON(router, http.MethodGet, "/api/v1/products?search=nomatch", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":0`)
	})

	t.Run("get", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/products/"+productID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Blue Widget")
	})

	t.Run("update", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/v1/products/"+productID, token, gin.H{
			"rate": 24.99,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "24.99")
	})

	t.Run("other users cannot see it", func(t *testing.T) {
		otherToken := registerAndLogin(t, router, "other@example.com")
		w := doJSON(router, http.MethodGet, "/api/v1/products/"+productID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(router, http.MethodGet, "/api/v1/products", otherToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":0`)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/v1/products/"+productID, token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(router, http.MethodGet, "/api/v1/products/"+productID, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id is a bad request", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/products/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceGeneration(t *testing.T) {
	router := setupRouter(t)
	token := registerAndLogin(t, router, "billing@example.com")

	t.Run("requires auth", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/invoices", "", gin.H{"items": []gin.H{}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("generates a PDF download", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/invoices", token, gin.H{
			"items": []gin.H{
				{"name": "Widget", "qty": 2, "rate": 10.0},
				{"name": "Gadget", "qty": "1", "rate": "5.00"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice.pdf")
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"), "body should be a PDF document")
	})

	t.Run("empty items still render", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/invoices", token, gin.H{"items": []gin.H{}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	})

	t.Run("invalid items return all field errors", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/invoices", token, gin.H{
			"items": []gin.H{
				{"name": "", "qty": "x", "rate": "y"},
			},
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "items[0].name")
		assert.Contains(t, w.Body.String(), "items[0].qty")
		assert.Contains(t, w.Body.String(), "items[0].rate")
	})

	t.Run("invalid items persist nothing", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/invoices", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":2`)
	})

	t.Run("list shows sequential numbers", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/invoices", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"number":1`)
		assert.Contains(t, w.Body.String(), `"number":2`)
	})

	t.Run("stored invoice re-renders as PDF", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/invoices", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Items []struct {
					ID string `json:"id"`
				} `json:"items"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Data.Items)

		w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s/pdf", resp.Data.Items[0].ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	})

	t.Run("idempotency key replays the same PDF", func(t *testing.T) {
		req := gin.H{"items": []gin.H{{"name": "Widget", "qty": 1, "rate": 1.0}}}

		data, _ := json.Marshal(req)
		first, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(data))
		first.Header.Set("Content-Type", "application/json")
		first.Header.Set("Authorization", "Bearer "+token)
		first.Header.Set("Idempotency-Key", "gen-1")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, first)
		require.Equal(t, http.StatusOK, w1.Code)

		second, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(data))
		second.Header.Set("Content-Type", "application/json")
		second.Header.Set("Authorization", "Bearer "+token)
		second.Header.Set("Idempotency-Key", "gen-1")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, second)

		require.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "true", w2.Header().Get("X-Idempotency-Replayed"))
		assert.Equal(t, w1.Body.Bytes(), w2.Body.Bytes())

		// only one invoice was written for the two requests
		w := doJSON(router, http.MethodGet, "/api/v1/invoices", token, nil)
		var resp struct {
			Data struct {
				Pagination struct {
					Total int64 `json:"total"`
				} `json:"pagination"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.Data.Pagination.Total)
	})

	t.Run("other users cannot fetch the invoice", func(t *testing.T) {
		otherToken := registerAndLogin(t, router, "intruder@example.com")

		w := doJSON(router, http.MethodGet, "/api/v1/invoices", token, nil)
		var resp struct {
			Data struct {
				Items []struct {
					ID string `json:"id"`
				} `json:"items"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Data.Items)

		w = doJSON(router, http.MethodGet, "/api/v1/invoices/"+resp.Data.Items[0].ID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
