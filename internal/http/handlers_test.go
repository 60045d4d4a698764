package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
	"dhandho/internal/service"
)

const testSecret = "test-secret"

func setupServer(t *testing.T) (*Server, *repository.MemoryStore) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := repository.NewMemoryStore()
	businesses := service.NewBusinessService(store)
	products := service.NewProductService(store)
	relations := service.NewRelationService(store, store)
	orders := service.NewOrderService(store, store, store, log)
	employees := service.NewEmployeeService(store, store)
	return NewServer(businesses, products, orders, relations, employees, log, []byte(testSecret)), store
}

func signTokenWith(t *testing.T, secret []byte, userID, businessUID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": userID.String()}
	if businessUID != uuid.Nil {
		claims["business_uid"] = businessUID.String()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func signToken(t *testing.T, userID, businessUID uuid.UUID) string {
	t.Helper()
	return signTokenWith(t, []byte(testSecret), userID, businessUID)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return v
}

func registerBusiness(t *testing.T, s *Server, code, name string) (uuid.UUID, string) {
	t.Helper()
	owner := uuid.New()
	w := doJSON(t, s, http.MethodPost, "/api/v1/businesses", signToken(t, owner, uuid.Nil), map[string]any{
		"business_id":   code,
		"business_name": name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register business code %v body %s", w.Code, w.Body.String())
	}
	b := decodeBody[domain.Business](t, w)
	return b.BusinessUID, signToken(t, owner, b.BusinessUID)
}

func TestAuthRequired(t *testing.T) {
	s, _ := setupServer(t)
	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token code %v", w.Code)
	}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token code %v", w.Code)
	}
	// a token minted with the wrong key must not verify, the empty key included
	forged := signTokenWith(t, []byte(""), uuid.New(), uuid.New())
	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders", forged, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("forged token code %v", w.Code)
	}
	other := signTokenWith(t, []byte("other-secret"), uuid.New(), uuid.New())
	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders", other, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret code %v", w.Code)
	}
}

func TestProductFlow(t *testing.T) {
	s, _ := setupServer(t)
	_, token := registerBusiness(t, s, "DHN-10001", "Sharma Traders")

	w := doJSON(t, s, http.MethodPost, "/api/v1/products", token, map[string]any{
		"product_name": "Biscuits", "rate": "10.50", "qty_in_ctn": 24,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create code %v body %s", w.Code, w.Body.String())
	}
	p := decodeBody[domain.Product](t, w)

	w = doJSON(t, s, http.MethodGet, "/api/v1/products", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code %v", w.Code)
	}
	if items := decodeBody[[]domain.Product](t, w); len(items) != 1 {
		t.Fatalf("expected 1 product, got %d", len(items))
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/products", token, map[string]any{
		"product_name": "Soap", "rate": "not-a-number",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad rate code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", p.ID), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete code %v", w.Code)
	}
}

func TestConnectionAndOrderFlow(t *testing.T) {
	s, _ := setupServer(t)
	_, customerToken := registerBusiness(t, s, "DHN-20001", "Gupta Stores")
	sellerUID, sellerToken := registerBusiness(t, s, "DHN-20002", "Mehta Wholesale")

	// seller catalogue
	w := doJSON(t, s, http.MethodPost, "/api/v1/products", sellerToken, map[string]any{
		"product_name": "Namkeen", "rate": "3", "qty_in_ctn": 10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("seller product code %v", w.Code)
	}
	product := decodeBody[domain.Product](t, w)

	// ordering before a connection exists is refused
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", customerToken, map[string]any{
		"to_store": sellerUID.String(),
		"lines":    []map[string]any{{"product_id": product.ID, "qty_in_pcs": 5}},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("unconnected order code %v", w.Code)
	}

	// request and approve the connection
	w = doJSON(t, s, http.MethodPost, "/api/v1/connections/requests", customerToken, map[string]any{
		"to_business_uid": sellerUID.String(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send request code %v body %s", w.Code, w.Body.String())
	}
	request := decodeBody[domain.BusinessRequest](t, w)

	resolvePath := fmt.Sprintf("/api/v1/connections/requests/%d/resolve", request.RequestID)
	w = doJSON(t, s, http.MethodPost, resolvePath, sellerToken, map[string]any{"action": "approve"})
	if w.Code != http.StatusOK {
		t.Fatalf("approve code %v body %s", w.Code, w.Body.String())
	}
	// a second decision on the same request conflicts
	w = doJSON(t, s, http.MethodPost, resolvePath, sellerToken, map[string]any{"action": "reject"})
	if w.Code != http.StatusConflict {
		t.Fatalf("second resolve code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/connections", customerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("connections code %v", w.Code)
	}
	if rels := decodeBody[[]domain.BusinessRelation](t, w); len(rels) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(rels))
	}

	// customer can now browse the seller's catalogue and order
	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/sellers/%s/products", sellerUID), customerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("seller products code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", customerToken, map[string]any{
		"to_store": sellerUID.String(),
		"lines":    []map[string]any{{"product_id": product.ID, "qty_in_pcs": 15}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("order code %v body %s", w.Code, w.Body.String())
	}
	order := decodeBody[domain.Order](t, w)
	if len(order.Lines) != 1 || order.Lines[0].QtyInPcs != 5 || order.Lines[0].QtyInCtn != 1 {
		t.Fatalf("unexpected normalized line: %+v", order.Lines)
	}
	if order.Amount.String() != "45" {
		t.Fatalf("amount %s", order.Amount)
	}

	// duplicate lines are rejected with a 400
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", customerToken, map[string]any{
		"to_store": sellerUID.String(),
		"lines": []map[string]any{
			{"product_id": product.ID, "qty_in_pcs": 1},
			{"product_id": product.ID, "qty_in_pcs": 2},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate lines code %v", w.Code)
	}

	// both parties see the order, strangers do not
	orderPath := fmt.Sprintf("/api/v1/orders/%d", order.OrderID)
	if w = doJSON(t, s, http.MethodGet, orderPath, sellerToken, nil); w.Code != http.StatusOK {
		t.Fatalf("seller get order code %v", w.Code)
	}
	_, strangerToken := registerBusiness(t, s, "DHN-20003", "Unrelated Mart")
	if w = doJSON(t, s, http.MethodGet, orderPath, strangerToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("stranger get order code %v", w.Code)
	}
}

func TestConnectionRequestWithdraw(t *testing.T) {
	s, _ := setupServer(t)
	_, customerToken := registerBusiness(t, s, "DHN-30001", "Gupta Stores")
	sellerUID, sellerToken := registerBusiness(t, s, "DHN-30002", "Mehta Wholesale")

	w := doJSON(t, s, http.MethodPost, "/api/v1/connections/requests", customerToken, map[string]any{
		"to_business_uid": sellerUID.String(),
	})
	request := decodeBody[domain.BusinessRequest](t, w)

	path := fmt.Sprintf("/api/v1/connections/requests/%d", request.RequestID)
	// recipient cannot withdraw someone else's request
	if w = doJSON(t, s, http.MethodDelete, path, sellerToken, nil); w.Code != http.StatusConflict {
		t.Fatalf("foreign withdraw code %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodDelete, path, customerToken, nil); w.Code != http.StatusNoContent {
		t.Fatalf("withdraw code %v", w.Code)
	}
}

func TestEmployeeOnboardingFlow(t *testing.T) {
	s, _ := setupServer(t)
	_, businessToken := registerBusiness(t, s, "DHN-40001", "Sharma Traders")

	w := doJSON(t, s, http.MethodPost, "/api/v1/employee-requests", "", map[string]any{
		"email": "Asha@Example.com", "first_name": "Asha", "business_id": "DHN-40001",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit code %v body %s", w.Code, w.Body.String())
	}
	request := decodeBody[domain.EmployeeRequest](t, w)
	if request.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %s", request.Email)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/employee-requests/check?email=asha@example.com", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check code %v", w.Code)
	}

	// consuming a pending request is refused
	w = doJSON(t, s, http.MethodPost, "/api/v1/employee-requests/consume", "", map[string]any{
		"email": "asha@example.com", "password": "s3cret!pass",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("premature consume code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/employee-requests/%d/resolve", request.RequestID), businessToken, map[string]any{"action": "approve"})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve code %v body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/employee-requests/consume", "", map[string]any{
		"email": "asha@example.com", "password": "s3cret!pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("consume code %v body %s", w.Code, w.Body.String())
	}

	// the request is spent, a second consume finds nothing
	w = doJSON(t, s, http.MethodPost, "/api/v1/employee-requests/consume", "", map[string]any{
		"email": "asha@example.com", "password": "another",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("second consume code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/employees", businessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("employees code %v", w.Code)
	}
	if staff := decodeBody[[]domain.Employee](t, w); len(staff) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(staff))
	}
}

func TestBusinessSearch(t *testing.T) {
	s, _ := setupServer(t)
	_, token := registerBusiness(t, s, "DHN-50001", "Sharma Traders")

	w := doJSON(t, s, http.MethodGet, "/api/v1/businesses/search?code=DHN-5", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search code %v", w.Code)
	}
	if found := decodeBody[[]domain.Business](t, w); len(found) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(found))
	}

	// short fragments return nothing instead of scanning
	w = doJSON(t, s, http.MethodGet, "/api/v1/businesses/search?code=DH", token, nil)
	if found := decodeBody[[]domain.Business](t, w); len(found) != 0 {
		t.Fatalf("expected no hits for short query, got %d", len(found))
	}
}
