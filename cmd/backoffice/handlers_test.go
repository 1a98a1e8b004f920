package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-backoffice/internal/auth"
	"github.com/MikeMC777/tienda-backoffice/internal/catalog"
	ord "github.com/MikeMC777/tienda-backoffice/internal/order"
	prod "github.com/MikeMC777/tienda-backoffice/internal/product"
	"github.com/MikeMC777/tienda-backoffice/internal/refdata"
)

//
// ---------- STUBS & FAKES ----------
//

// stubUsers implements auth.Repository in memory.
type stubUsers struct {
	byEmail map[string]*auth.User
}

func newStubUsers() *stubUsers { return &stubUsers{byEmail: map[string]*auth.User{}} }

func (s *stubUsers) Create(_ context.Context, u *auth.User) error {
	if _, ok := s.byEmail[u.Email]; ok {
		return auth.ErrAlreadyExist
	}
	cp := *u
	s.byEmail[u.Email] = &cp
	return nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// stubProducts implements prod.Repository in memory.
type stubProducts struct {
	items map[string]*prod.Product
}

func newStubProducts() *stubProducts { return &stubProducts{items: map[string]*prod.Product{}} }

func (s *stubProducts) Create(_ context.Context, p *prod.Product) error {
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*prod.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProducts) List(_ context.Context, q prod.Query) ([]prod.Product, error) {
	return s.all(), nil
}

func (s *stubProducts) ListAll(_ context.Context) ([]prod.Product, error) {
	return s.all(), nil
}

func (s *stubProducts) all() []prod.Product {
	out := make([]prod.Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, *p)
	}
	return out
}

func (s *stubProducts) Update(_ context.Context, p *prod.Product, _ bool) error {
	if _, ok := s.items[p.ID]; !ok {
		return prod.ErrNotFound
	}
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *stubProducts) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

// stubRef implements refdata.Repository with fixed lists.
type stubRef struct {
	suppliers  []refdata.Supplier
	categories []refdata.Category
}

func (s *stubRef) ListSuppliers(context.Context) ([]refdata.Supplier, error) {
	return s.suppliers, nil
}
func (s *stubRef) ListCategories(context.Context) ([]refdata.Category, error) {
	return s.categories, nil
}

// fakeStore implements ord.Store with injectable failures.
type fakeStore struct {
	headerErr error
	linesErr  error

	headers []*ord.Order
	lines   [][]ord.Line
}

func (f *fakeStore) InsertHeader(_ context.Context, o *ord.Order) (string, error) {
	if f.headerErr != nil {
		return "", f.headerErr
	}
	cp := *o
	cp.ID = uuid.NewString()
	f.headers = append(f.headers, &cp)
	return cp.ID, nil
}

func (f *fakeStore) InsertLines(_ context.Context, orderID string, lines []ord.Line) error {
	if f.linesErr != nil {
		return f.linesErr
	}
	f.lines = append(f.lines, append([]ord.Line(nil), lines...))
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*ord.Order, []ord.Line, error) {
	for i, h := range f.headers {
		if h.ID == id {
			var lines []ord.Line
			if i < len(f.lines) {
				lines = f.lines[i]
			}
			return h, lines, nil
		}
	}
	return nil, nil, ord.ErrNotFound
}

func (f *fakeStore) ListRecent(context.Context, int, int) ([]ord.Order, error) {
	out := make([]ord.Order, 0, len(f.headers))
	for _, h := range f.headers {
		out = append(out, *h)
	}
	return out, nil
}

//
// ---------- TEST HARNESS ----------
//

type harness struct {
	router   *gin.Engine
	users    *stubUsers
	products *stubProducts
	store    *fakeStore
	token    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	users := newStubUsers()
	products := newStubProducts()
	ref := &stubRef{
		suppliers:  []refdata.Supplier{{ID: "s1", Name: "Distribuidora Norte"}},
		categories: []refdata.Category{{ID: "c1", Name: "Abarrotes"}},
	}
	store := &fakeStore{}
	tokens := auth.NewTokens("test-secret", "tienda-backoffice")
	sessions := ord.NewSessions(catalog.NewProvider(products, ref))

	h := &harness{
		router: newRouter(routerDeps{
			users:     users,
			tokens:    tokens,
			products:  products,
			ref:       ref,
			sessions:  sessions,
			persister: ord.NewPersister(store),
			store:     store,
		}),
		users:    users,
		products: products,
		store:    store,
	}

	// registrar un usuario y quedarnos con su token
	w := h.do(http.MethodPost, "/auth/register",
		`{"username":"mike","email":"mike@tienda.mx","password":"s3cret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	var tr auth.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tr); err != nil {
		t.Fatalf("register json: %v", err)
	}
	h.token = tr.Token
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) addProduct(t *testing.T, name, barcode, purchase string, supplierID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"barcode":%q,"purchase_price":%q,"sale_price":"99","stock":10`, name, barcode, purchase)
	if supplierID != "" {
		body += fmt.Sprintf(`,"supplier_id":%q`, supplierID)
	}
	body += `}`
	w := h.do(http.MethodPost, "/products", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product status=%d body=%s", w.Code, w.Body.String())
	}
	var p prod.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	return p.ID
}

//
// ---------- TESTS ----------
//

func TestAuth_RequiredForWorkflow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.token = "" // sin token
	if w := h.do(http.MethodGet, "/products", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, esperaba 401", w.Code)
	}
	h.token = "garbage"
	if w := h.do(http.MethodGet, "/products", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, esperaba 401 con token inválido", w.Code)
	}
}

func TestLogin_GoodAndBadCredentials(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	w := h.do(http.MethodPost, "/auth/login", `{"email":"mike@tienda.mx","password":"s3cret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	w = h.do(http.MethodPost, "/auth/login", `{"email":"mike@tienda.mx","password":"mala"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("login con contraseña mala status=%d, esperaba 401", w.Code)
	}
}

func TestProductCRUD(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.addProduct(t, "Harina 1kg", "750A", "18.50", "")

	w := h.do(http.MethodGet, "/products/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d", w.Code)
	}
	var p prod.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.PurchasePrice != "18.50" || p.Barcode != "750A" {
		t.Fatalf("producto inesperado: %+v", p)
	}

	w = h.do(http.MethodPut, "/products/"+id, `{"stock":25}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodDelete, "/products/"+id, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w = h.do(http.MethodGet, "/products/"+id, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get tras delete status=%d, esperaba 404", w.Code)
	}
}

func TestCreateProduct_RejectsNegativePrice(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	w := h.do(http.MethodPost, "/products",
		`{"name":"X","barcode":"b","purchase_price":"-1","sale_price":"2","stock":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, esperaba 400", w.Code)
	}
}

func TestWorkflow_FreeModeScanAndCommit(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.addProduct(t, "Harina 1kg", "750A", "10", "")

	// abrir draft en modo libre
	w := h.do(http.MethodPost, "/orders/draft", `{"mode":"free"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("begin status=%d body=%s", w.Code, w.Body.String())
	}

	// escanear dos veces
	for i := 0; i < 2; i++ {
		if w = h.do(http.MethodPost, "/orders/draft/scan", `{"barcode":"750A"}`); w.Code != http.StatusOK {
			t.Fatalf("scan status=%d body=%s", w.Code, w.Body.String())
		}
	}
	var view struct {
		Rows  []ord.Row `json:"rows"`
		Total string    `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Rows) != 1 || view.Rows[0].Quantity != 2 {
		t.Fatalf("esperaba una fila con cantidad 2: %+v", view.Rows)
	}
	if view.Total != "20.00" {
		t.Fatalf("total=%s, esperaba 20.00", view.Total)
	}

	// guardar el pedido
	w = h.do(http.MethodPost, "/orders", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("commit status=%d body=%s", w.Code, w.Body.String())
	}
	if len(h.store.headers) != 1 || h.store.headers[0].Total != "20.00" {
		t.Fatalf("cabecera inesperada: %+v", h.store.headers)
	}
	if len(h.store.lines) != 1 || len(h.store.lines[0]) != 1 {
		t.Fatalf("líneas inesperadas: %+v", h.store.lines)
	}
	ln := h.store.lines[0][0]
	if ln.Quantity != 2 || ln.UnitPrice != "10.00" || ln.Subtotal != "20.00" {
		t.Fatalf("línea inesperada: %+v", ln)
	}

	// el draft se descarta al guardar
	if w = h.do(http.MethodGet, "/orders/draft", ""); w.Code != http.StatusConflict {
		t.Fatalf("draft tras commit status=%d, esperaba 409", w.Code)
	}
}

func TestWorkflow_SupplierModeFilterAndQuantities(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	pid := h.addProduct(t, "Harina 1kg", "750A", "18.50", "s1")
	h.addProduct(t, "Aceite 1L", "750C", "30", "")

	w := h.do(http.MethodPost, "/orders/draft", `{"mode":"supplier"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("begin status=%d", w.Code)
	}
	if w = h.do(http.MethodPut, "/orders/draft/filter", `{"supplier_id":"s1"}`); w.Code != http.StatusOK {
		t.Fatalf("filter status=%d body=%s", w.Code, w.Body.String())
	}

	var view struct {
		Rows  []ord.Row `json:"rows"`
		Total string    `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Rows) != 1 || view.Rows[0].ProductID != pid {
		t.Fatalf("candidatos inesperados: %+v", view.Rows)
	}

	// editar cantidad en la tabla
	if w = h.do(http.MethodPut, "/orders/draft/lines/"+pid, `{"quantity":4}`); w.Code != http.StatusOK {
		t.Fatalf("set quantity status=%d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Total != "74.00" { // 4 x 18.50
		t.Fatalf("total=%s, esperaba 74.00", view.Total)
	}

	// cantidad negativa rechazada sin tocar el draft
	if w = h.do(http.MethodPut, "/orders/draft/lines/"+pid, `{"quantity":-1}`); w.Code != http.StatusBadRequest {
		t.Fatalf("quantity -1 status=%d, esperaba 400", w.Code)
	}
	if w = h.do(http.MethodGet, "/orders/draft", ""); w.Code != http.StatusOK {
		t.Fatal("draft perdido")
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Total != "74.00" {
		t.Fatalf("total=%s tras edición inválida, esperaba 74.00", view.Total)
	}
}

func TestWorkflow_ScanMissIsANoticeNotACrash(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.addProduct(t, "Harina 1kg", "750A", "10", "")

	if w := h.do(http.MethodPost, "/orders/draft", `{"mode":"free"}`); w.Code != http.StatusCreated {
		t.Fatalf("begin status=%d", w.Code)
	}
	w := h.do(http.MethodPost, "/orders/draft/scan", `{"barcode":"0000"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("scan miss status=%d, esperaba 404", w.Code)
	}
	// el draft sigue vacío y usable
	w = h.do(http.MethodGet, "/orders/draft", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":"0.00"`) {
		t.Fatalf("draft tras scan fallido: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestWorkflow_CommitEmptyOrderBlocked(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	pid := h.addProduct(t, "Harina 1kg", "750A", "10", "s1")

	if w := h.do(http.MethodPost, "/orders/draft", `{"mode":"supplier"}`); w.Code != http.StatusCreated {
		t.Fatalf("begin failed")
	}
	if w := h.do(http.MethodPut, "/orders/draft/filter", `{"supplier_id":"s1"}`); w.Code != http.StatusOK {
		t.Fatalf("filter failed")
	}
	// una línea en cero no es un pedido
	if w := h.do(http.MethodPut, "/orders/draft/lines/"+pid, `{"quantity":0}`); w.Code != http.StatusOK {
		t.Fatalf("set quantity failed")
	}

	w := h.do(http.MethodPost, "/orders", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("commit vacío status=%d, esperaba 422", w.Code)
	}
	if len(h.store.headers) != 0 {
		t.Fatal("el commit vacío no debe escribir nada")
	}
}

func TestWorkflow_PartialCommitKeepsDraftAndReportsHeaderID(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.addProduct(t, "Harina 1kg", "750A", "10", "")
	h.store.linesErr = fmt.Errorf("timeout")

	if w := h.do(http.MethodPost, "/orders/draft", `{"mode":"free"}`); w.Code != http.StatusCreated {
		t.Fatalf("begin failed")
	}
	if w := h.do(http.MethodPost, "/orders/draft/scan", `{"barcode":"750A"}`); w.Code != http.StatusOK {
		t.Fatalf("scan failed")
	}

	w := h.do(http.MethodPost, "/orders", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("commit status=%d, esperaba 502", w.Code)
	}
	var resp struct {
		Code    string `json:"code"`
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "partial_commit" || resp.OrderID == "" {
		t.Fatalf("respuesta sin id de cabecera: %s", w.Body.String())
	}
	if len(h.store.headers) != 1 {
		t.Fatalf("headers=%d, la cabecera huérfana debe existir", len(h.store.headers))
	}
	// el draft NO se descarta: el cliente debe resolver la cabecera huérfana
	if w = h.do(http.MethodGet, "/orders/draft", ""); w.Code != http.StatusOK {
		t.Fatalf("draft tras partial commit status=%d, esperaba 200", w.Code)
	}
}

func TestWorkflow_RetryLinesAfterPartialCommit(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.addProduct(t, "Harina 1kg", "750A", "10", "")
	h.store.linesErr = fmt.Errorf("timeout")

	if w := h.do(http.MethodPost, "/orders/draft", `{"mode":"free"}`); w.Code != http.StatusCreated {
		t.Fatalf("begin failed")
	}
	if w := h.do(http.MethodPost, "/orders/draft/scan", `{"barcode":"750A"}`); w.Code != http.StatusOK {
		t.Fatalf("scan failed")
	}
	w := h.do(http.MethodPost, "/orders", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("commit status=%d, esperaba 502", w.Code)
	}
	var resp struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	// el store se recupera; reintentar las líneas contra la cabecera existente
	h.store.linesErr = nil
	w = h.do(http.MethodPost, "/orders/"+resp.OrderID+"/lines", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("retry status=%d body=%s", w.Code, w.Body.String())
	}
	if len(h.store.headers) != 1 {
		t.Fatalf("headers=%d, el retry no debe duplicar la cabecera", len(h.store.headers))
	}
	if len(h.store.lines) != 1 || h.store.lines[0][0].OrderID != resp.OrderID {
		t.Fatalf("líneas inesperadas: %+v", h.store.lines)
	}
	// ahora sí, el draft queda descartado
	if w = h.do(http.MethodGet, "/orders/draft", ""); w.Code != http.StatusConflict {
		t.Fatalf("draft tras retry status=%d, esperaba 409", w.Code)
	}
}

func TestOrderHistory(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.addProduct(t, "Harina 1kg", "750A", "10", "")

	if w := h.do(http.MethodPost, "/orders/draft", `{"mode":"free"}`); w.Code != http.StatusCreated {
		t.Fatalf("begin failed")
	}
	if w := h.do(http.MethodPost, "/orders/draft/scan", `{"barcode":"750A"}`); w.Code != http.StatusOK {
		t.Fatalf("scan failed")
	}
	if w := h.do(http.MethodPost, "/orders", ""); w.Code != http.StatusCreated {
		t.Fatalf("commit failed")
	}

	w := h.do(http.MethodGet, "/orders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var list struct {
		Items []ord.Order `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("items=%d, esperaba 1", len(list.Items))
	}

	w = h.do(http.MethodGet, "/orders/"+list.Items[0].ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get order status=%d", w.Code)
	}
	if w = h.do(http.MethodGet, "/orders/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("get order inexistente status=%d, esperaba 404", w.Code)
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
