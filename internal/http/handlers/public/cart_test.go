package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mazraa-market/internal/cart"
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/provider"
	"github.com/mazraa-market/internal/repository"
	"github.com/mazraa-market/internal/service"
)

func setupCartHandlerTest(t *testing.T, name string) (*Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Farm{}, &models.Product{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	storage, err := cart.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("cart storage failed: %v", err)
	}
	manager := cart.NewManager(storage, cart.Limits{MaxDistinctLines: 5, QuantityCap: 10, ShippingFee: 15})
	productRepo := repository.NewProductRepository(db)
	cartService := service.NewCartService(manager, service.NewDBCatalogSource(productRepo), productRepo)

	return New(&provider.Container{CartService: cartService}), db
}

func seedCartProduct(t *testing.T, db *gorm.DB, name string, price int64) *models.Product {
	t.Helper()
	farm := &models.Farm{OwnerID: 1, Name: "مزرعة تمور القصيم"}
	if err := db.Create(farm).Error; err != nil {
		t.Fatalf("create farm failed: %v", err)
	}
	product := &models.Product{
		FarmID:      farm.ID,
		Name:        name,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func doCartRequest(h *Handler, method, path, body string, handler gin.HandlerFunc, params ...gin.Param) (*httptest.ResponseRecorder, response.Response) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	c.Set("user_id", uint(1))
	handler(c)

	var envelope response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func TestAddCartItemHandler(t *testing.T) {
	h, db := setupCartHandlerTest(t, "handler_cart_add")
	product := seedCartProduct(t, db, "تمر سكري", 45)

	w, envelope := doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items",
		fmt.Sprintf(`{"product_id":%d,"quantity":2}`, product.ID), h.AddCartItem)
	if w.Code != http.StatusOK || envelope.StatusCode != 0 {
		t.Fatalf("expected success envelope, got %d %+v", w.Code, envelope)
	}

	data, _ := envelope.Data.(map[string]interface{})
	summary, _ := data["summary"].(map[string]interface{})
	if summary["total"] != "105.00" {
		t.Fatalf("expected total 105.00, got %v", summary["total"])
	}
}

func TestAddCartItemHandlerValidation(t *testing.T) {
	h, _ := setupCartHandlerTest(t, "handler_cart_validate")

	_, envelope := doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items", `{"quantity":1}`, h.AddCartItem)
	if envelope.StatusCode != response.CodeBadRequest {
		t.Fatalf("missing product_id must fail validation, got %+v", envelope)
	}

	_, envelope = doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items", `{"product_id":999}`, h.AddCartItem)
	if envelope.StatusCode != response.CodeNotFound {
		t.Fatalf("unknown product must map to not found, got %+v", envelope)
	}
}

func TestAddCartItemHandlerLineLimitIsWarning(t *testing.T) {
	h, db := setupCartHandlerTest(t, "handler_cart_limit")
	var products []*models.Product
	for i := 0; i < 6; i++ {
		products = append(products, seedCartProduct(t, db, fmt.Sprintf("صنف %d", i+1), 10))
	}

	for i := 0; i < 5; i++ {
		if w, envelope := doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items",
			fmt.Sprintf(`{"product_id":%d}`, products[i].ID), h.AddCartItem); w.Code != http.StatusOK || envelope.StatusCode != 0 {
			t.Fatalf("add %d failed: %+v", i, envelope)
		}
	}

	// The sixth distinct product comes back as HTTP 200 with the limit
	// message and the unchanged cart attached.
	w, envelope := doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items",
		fmt.Sprintf(`{"product_id":%d}`, products[5].ID), h.AddCartItem)
	if w.Code != http.StatusOK {
		t.Fatalf("cap rejection must not be an HTTP error, got %d", w.Code)
	}
	if envelope.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected business code %d, got %+v", response.CodeBadRequest, envelope)
	}
	if !strings.Contains(envelope.Msg, "5") {
		t.Fatalf("limit message must name the cap, got %q", envelope.Msg)
	}
	data, _ := envelope.Data.(map[string]interface{})
	lines, _ := data["lines"].([]interface{})
	if len(lines) != 5 {
		t.Fatalf("response must carry the untouched cart, got %d lines", len(lines))
	}
}

func TestUpdateAndRemoveCartItemHandler(t *testing.T) {
	h, db := setupCartHandlerTest(t, "handler_cart_update")
	product := seedCartProduct(t, db, "تمر سكري", 45)

	if _, envelope := doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items",
		fmt.Sprintf(`{"product_id":%d}`, product.ID), h.AddCartItem); envelope.StatusCode != 0 {
		t.Fatalf("add failed: %+v", envelope)
	}

	ident := gin.Param{Key: "ident", Value: fmt.Sprintf("%d", product.ID)}
	_, envelope := doCartRequest(h, http.MethodPut, "/api/v1/user/cart/items/1", `{"quantity":4}`, h.UpdateCartItem, ident)
	if envelope.StatusCode != 0 {
		t.Fatalf("update failed: %+v", envelope)
	}
	data, _ := envelope.Data.(map[string]interface{})
	summary, _ := data["summary"].(map[string]interface{})
	if summary["total_quantity"] != float64(4) {
		t.Fatalf("expected quantity 4, got %v", summary["total_quantity"])
	}

	// Unknown line is a not-found, not a silent success.
	missing := gin.Param{Key: "ident", Value: "999"}
	_, envelope = doCartRequest(h, http.MethodDelete, "/api/v1/user/cart/items/999", "", h.RemoveCartItem, missing)
	if envelope.StatusCode != response.CodeNotFound {
		t.Fatalf("expected not found, got %+v", envelope)
	}

	_, envelope = doCartRequest(h, http.MethodDelete, "/api/v1/user/cart/items/1", "", h.RemoveCartItem, ident)
	if envelope.StatusCode != 0 {
		t.Fatalf("remove failed: %+v", envelope)
	}
	_, envelope = doCartRequest(h, http.MethodGet, "/api/v1/user/cart", "", h.GetCart)
	data, _ = envelope.Data.(map[string]interface{})
	lines, _ := data["lines"].([]interface{})
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %v", data["lines"])
	}
}

func TestGetCartCarriesQuantityWarning(t *testing.T) {
	h, db := setupCartHandlerTest(t, "handler_cart_warning")
	product := seedCartProduct(t, db, "تمر سكري", 45)

	if _, envelope := doCartRequest(h, http.MethodPost, "/api/v1/user/cart/items",
		fmt.Sprintf(`{"product_id":%d,"quantity":12}`, product.ID), h.AddCartItem); envelope.StatusCode != 0 {
		t.Fatalf("add failed: %+v", envelope)
	}

	_, envelope := doCartRequest(h, http.MethodGet, "/api/v1/user/cart", "", h.GetCart)
	data, _ := envelope.Data.(map[string]interface{})
	if data["checkout_blocked"] != true {
		t.Fatalf("expected checkout blocked, got %v", data["checkout_blocked"])
	}
	warnings, _ := data["warnings"].([]interface{})
	if len(warnings) != 1 {
		t.Fatalf("expected the standing quantity warning, got %v", data["warnings"])
	}
	warning, _ := warnings[0].(map[string]interface{})
	if warning["persistent"] != true || warning["message_key"] != "cart.quantity_warning" {
		t.Fatalf("unexpected warning payload: %v", warning)
	}
}
