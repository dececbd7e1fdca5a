package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSaver struct {
	mu       sync.Mutex
	err      error
	payloads []billing.SalePayload
}

func (f *fakeSaver) CreateSale(_ context.Context, _ string, p billing.SalePayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return "", f.err
	}
	return "SALE-20240309140506-AB12", nil
}

type saveCounter struct {
	mu      sync.Mutex
	results []string
}

func (s *saveCounter) SaveAttempt(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

type billEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SaleID  string `json:"sale_id"`
	Data    struct {
		Items []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Quantity int     `json:"quantity"`
			Total    float64 `json:"total"`
		} `json:"items"`
		Subtotal        float64  `json:"subtotal"`
		DiscountAmount  float64  `json:"discount_amount"`
		Total           float64  `json:"total"`
		PaymentReceived *float64 `json:"payment_received"`
		Change          float64  `json:"change"`
		PaymentStatus   string   `json:"payment_status"`
		SaveStatus      string   `json:"save_status"`
		LastSaleID      string   `json:"last_sale_id"`
	} `json:"data"`
}

type billFixture struct {
	router  *gin.Engine
	saver   *fakeSaver
	saves   *saveCounter
	printer *printer.BufferPrinter
}

func newBillFixture(t *testing.T) *billFixture {
	t.Helper()
	f := &billFixture{
		saver:   &fakeSaver{},
		saves:   &saveCounter{},
		printer: printer.NewBufferPrinter(),
	}
	session := billing.NewSession(f.saver)
	t.Cleanup(session.Close)
	printerService := service.NewPrinterService(f.printer, nil, "Shop", printer.Width58mm, nil)
	h := NewBillHandler(session, printerService, f.saves)

	r := gin.New()
	bill := r.Group("/api/v1/bill")
	bill.GET("", h.Get)
	bill.POST("/items", h.AddItem)
	bill.PATCH("/items/:id", h.UpdateQuantity)
	bill.DELETE("/items/:id", h.RemoveItem)
	bill.PUT("/discount", h.SetDiscount)
	bill.PUT("/payment", h.SetPayment)
	bill.POST("/save", h.Save)
	bill.POST("/clear", h.Clear)
	bill.POST("/print", h.Print)
	bill.GET("/receipt.pdf", h.ReceiptPDF)
	f.router = r
	return f
}

func (f *billFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, billEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env billEnvelope
	if w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestBillHandler_CheckoutFlow(t *testing.T) {
	f := newBillFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/bill/items", map[string]string{
		"name": "Coffee", "price": "3.50", "quantity": "2",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, 7.0, env.Data.Subtotal)

	_, env = f.do(t, http.MethodPut, "/api/v1/bill/payment", map[string]string{"amount": "10"})
	assert.Equal(t, 3.0, env.Data.Change)
	assert.Equal(t, "completed", env.Data.PaymentStatus)

	w, env = f.do(t, http.MethodPost, "/api/v1/bill/save", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "SALE-20240309140506-AB12", env.SaleID)
	assert.Equal(t, "success", env.Data.SaveStatus)
	assert.Equal(t, "SALE-20240309140506-AB12", env.Data.LastSaleID)
	assert.Equal(t, []string{SaveResultSuccess}, f.saves.results)

	require.Len(t, f.saver.payloads, 1)
	assert.Equal(t, 7.0, f.saver.payloads[0].TotalAmount)
}

func TestBillHandler_InvalidItemIsIgnored(t *testing.T) {
	f := newBillFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/bill/items", map[string]string{
		"name": "Coffee", "price": "abc", "quantity": "1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data.Items)
}

func TestBillHandler_EditLines(t *testing.T) {
	f := newBillFixture(t)

	_, env := f.do(t, http.MethodPost, "/api/v1/bill/items", map[string]string{
		"name": "Tea", "price": "2", "quantity": "1",
	})
	id := env.Data.Items[0].ID

	_, env = f.do(t, http.MethodPatch, "/api/v1/bill/items/"+id, map[string]int{"quantity": 4})
	assert.Equal(t, 4, env.Data.Items[0].Quantity)

	_, env = f.do(t, http.MethodPatch, "/api/v1/bill/items/"+id, map[string]int{"quantity": 0})
	assert.Equal(t, 4, env.Data.Items[0].Quantity, "non-positive quantity is ignored")

	_, env = f.do(t, http.MethodPut, "/api/v1/bill/discount", map[string]string{"type": "amount", "value": "3"})
	assert.Equal(t, 3.0, env.Data.DiscountAmount)
	assert.Equal(t, 5.0, env.Data.Total)

	_, env = f.do(t, http.MethodDelete, "/api/v1/bill/items/"+id, nil)
	assert.Empty(t, env.Data.Items)
	assert.Equal(t, -3.0, env.Data.Total)
}

func TestBillHandler_SaveErrors(t *testing.T) {
	f := newBillFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/bill/save", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "error", env.Data.SaveStatus)
	assert.Empty(t, f.saver.payloads)

	f.do(t, http.MethodPost, "/api/v1/bill/items", map[string]string{
		"name": "Tea", "price": "2", "quantity": "1",
	})
	f.saver.err = errors.New("connection refused")
	w, env = f.do(t, http.MethodPost, "/api/v1/bill/save", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "error", env.Data.SaveStatus)
	assert.Len(t, env.Data.Items, 1, "bill is kept for a retry")

	assert.Equal(t, []string{SaveResultEmptyCart, SaveResultFailed}, f.saves.results)
}

func TestBillHandler_Clear(t *testing.T) {
	f := newBillFixture(t)
	f.do(t, http.MethodPost, "/api/v1/bill/items", map[string]string{
		"name": "Tea", "price": "2", "quantity": "1",
	})
	f.do(t, http.MethodPost, "/api/v1/bill/save", nil)

	_, env := f.do(t, http.MethodPost, "/api/v1/bill/clear", nil)
	assert.Empty(t, env.Data.Items)
	assert.Equal(t, "idle", env.Data.SaveStatus)
	assert.Empty(t, env.Data.LastSaleID)
	assert.Nil(t, env.Data.PaymentReceived)
}

func TestBillHandler_PrintAndPDF(t *testing.T) {
	f := newBillFixture(t)
	f.do(t, http.MethodPost, "/api/v1/bill/items", map[string]string{
		"name": "Tea", "price": "2", "quantity": "1",
	})

	w, env := f.do(t, http.MethodPost, "/api/v1/bill/print", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Len(t, f.printer.Jobs(), 1)

	w, _ = f.do(t, http.MethodGet, "/api/v1/bill/receipt.pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt.pdf")
}
