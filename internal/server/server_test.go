package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/InteliJR/pricehub/internal/authorization"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	"github.com/InteliJR/pricehub/internal/observability"
	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	pricingdomain "github.com/InteliJR/pricehub/internal/pricing/domain"
	productdomain "github.com/InteliJR/pricehub/internal/product/domain"
	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	"github.com/InteliJR/pricehub/internal/ratelimit"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"github.com/InteliJR/pricehub/internal/reference"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProductService struct {
	err       error
	simulated []pricingdomain.CalculateRequest
	actor     string
	getReq    productdomain.GetRequest
}

func (f *fakeProductService) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Response, error) {
	f.actor, _ = obsctx.ActorFromContext(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &productdomain.Response{ID: "1", Code: req.Code, Name: req.Name}, nil
}

func (f *fakeProductService) List(ctx context.Context, req productdomain.ListRequest) (*productdomain.ListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &productdomain.ListResponse{
		Items:    []productdomain.Response{{ID: "1", Code: "1001", Name: "Garrafa"}},
		PageInfo: pagination.NewPageInfo(req.Pagination, 1),
	}, nil
}

func (f *fakeProductService) Get(ctx context.Context, req productdomain.GetRequest) (*productdomain.Response, error) {
	f.getReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &productdomain.Response{ID: req.ID}, nil
}

func (f *fakeProductService) Update(ctx context.Context, req productdomain.UpdateRequest) (*productdomain.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &productdomain.Response{ID: req.ID}, nil
}

func (f *fakeProductService) Delete(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeProductService) Simulate(ctx context.Context, req pricingdomain.CalculateRequest) (*pricingdomain.Result, error) {
	f.simulated = append(f.simulated, req)
	if f.err != nil {
		return nil, f.err
	}
	return &pricingdomain.Result{
		Breakdown: []pricingdomain.BreakdownLine{},
		Summary: pricingdomain.Summary{
			PriceWithTaxesAndFreight: pricingdomain.NewMoney(decimal.RequireFromString("888.93")),
		},
	}, nil
}

type fakeRawMaterialService struct {
	err         error
	recentLimit int
}

func (f *fakeRawMaterialService) Create(ctx context.Context, req rawmaterialdomain.CreateRequest) (*rawmaterialdomain.Response, error) {
	return nil, f.err
}

func (f *fakeRawMaterialService) List(ctx context.Context, req rawmaterialdomain.ListRequest) (*rawmaterialdomain.ListResponse, error) {
	return &rawmaterialdomain.ListResponse{Items: []rawmaterialdomain.Response{}}, f.err
}

func (f *fakeRawMaterialService) Get(ctx context.Context, id string) (*rawmaterialdomain.Response, error) {
	return nil, f.err
}

func (f *fakeRawMaterialService) Update(ctx context.Context, req rawmaterialdomain.UpdateRequest) (*rawmaterialdomain.Response, error) {
	return nil, f.err
}

func (f *fakeRawMaterialService) Delete(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeRawMaterialService) ListChangeLogs(ctx context.Context, id string, page pagination.Pagination) (*rawmaterialdomain.ChangeLogListResponse, error) {
	return &rawmaterialdomain.ChangeLogListResponse{Items: []rawmaterialdomain.ChangeLogResponse{}}, f.err
}

func (f *fakeRawMaterialService) RecentChanges(ctx context.Context, limit int) ([]rawmaterialdomain.ChangeLogResponse, error) {
	f.recentLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []rawmaterialdomain.ChangeLogResponse{{ID: "8", RawMaterialID: "5", Field: "name"}}, nil
}

type fakeFreightService struct {
	err error
}

func (f *fakeFreightService) Create(ctx context.Context, req freightdomain.CreateRequest) (*freightdomain.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &freightdomain.Response{ID: "3", Name: req.Name}, nil
}

func (f *fakeFreightService) List(ctx context.Context, req freightdomain.ListRequest) (*freightdomain.ListResponse, error) {
	return &freightdomain.ListResponse{Items: []freightdomain.Response{}}, f.err
}

func (f *fakeFreightService) Get(ctx context.Context, id string) (*freightdomain.Response, error) {
	return nil, f.err
}

func (f *fakeFreightService) Update(ctx context.Context, req freightdomain.UpdateRequest) (*freightdomain.Response, error) {
	return nil, f.err
}

func (f *fakeFreightService) Delete(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeFreightService) Statistics(ctx context.Context) (*freightdomain.Statistics, error) {
	if f.err != nil {
		return nil, f.err
	}
	avg := decimal.RequireFromString("7.5")
	return &freightdomain.Statistics{
		Total:           2,
		ByCurrency:      []freightdomain.CurrencyCount{{Currency: "BRL", Count: 2}},
		ByOperationType: []freightdomain.OperationTypeCount{{OperationType: "EXTERNAL", Count: 2}},
		Prices:          freightdomain.PriceStatistics{Average: &avg},
	}, nil
}

type fakeFixedCostService struct {
	err         error
	overheadReq fixedcostdomain.CalculateOverheadRequest
}

func (f *fakeFixedCostService) Create(ctx context.Context, req fixedcostdomain.CreateRequest) (*fixedcostdomain.Response, error) {
	return nil, f.err
}

func (f *fakeFixedCostService) List(ctx context.Context, req fixedcostdomain.ListRequest) (*fixedcostdomain.ListResponse, error) {
	return &fixedcostdomain.ListResponse{Items: []fixedcostdomain.Response{}}, f.err
}

func (f *fakeFixedCostService) Get(ctx context.Context, id string) (*fixedcostdomain.Response, error) {
	return nil, f.err
}

func (f *fakeFixedCostService) Update(ctx context.Context, req fixedcostdomain.UpdateRequest) (*fixedcostdomain.Response, error) {
	return nil, f.err
}

func (f *fakeFixedCostService) Delete(ctx context.Context, id string) (*fixedcostdomain.DeleteResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fixedcostdomain.DeleteResponse{
		AffectedProducts: fixedcostdomain.AffectedProducts{Count: 2, Action: fixedcostdomain.DetachAction},
	}, nil
}

func (f *fakeFixedCostService) CalculateOverhead(ctx context.Context, req fixedcostdomain.CalculateOverheadRequest) (*fixedcostdomain.CalculateOverheadResponse, error) {
	f.overheadReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &fixedcostdomain.CalculateOverheadResponse{
		FixedCost:        fixedcostdomain.OverheadFixedCost{ID: req.ID},
		AffectedProducts: []fixedcostdomain.OverheadProduct{},
		Summary:          fixedcostdomain.OverheadSummary{Applied: req.ApplyToProducts},
	}, nil
}

type fakeProductGroupService struct {
	err error
}

func (f *fakeProductGroupService) Create(ctx context.Context, req productgroupdomain.CreateRequest) (*productgroupdomain.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &productgroupdomain.Response{ID: "6", Name: req.Name}, nil
}

func (f *fakeProductGroupService) List(ctx context.Context, req productgroupdomain.ListRequest) (*productgroupdomain.ListResponse, error) {
	return &productgroupdomain.ListResponse{Items: []productgroupdomain.Response{}}, f.err
}

func (f *fakeProductGroupService) Get(ctx context.Context, id string) (*productgroupdomain.Response, error) {
	return nil, f.err
}

func (f *fakeProductGroupService) Update(ctx context.Context, req productgroupdomain.UpdateRequest) (*productgroupdomain.Response, error) {
	return nil, f.err
}

func (f *fakeProductGroupService) Delete(ctx context.Context, id string) error {
	return f.err
}

type testServer struct {
	engine       *gin.Engine
	products     *fakeProductService
	rawMaterials *fakeRawMaterialService
	freights     *fakeFreightService
	fixedCosts   *fakeFixedCostService
	groups       *fakeProductGroupService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimiter(t, nil)
}

func newTestServerWithLimiter(t *testing.T, limiter *ratelimit.SimulateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := authorization.NewMemoryEnforcer()
	require.NoError(t, err)

	ts := &testServer{
		engine:       NewEngine(observability.Config{}, nil),
		products:     &fakeProductService{},
		rawMaterials: &fakeRawMaterialService{},
		freights:     &fakeFreightService{},
		fixedCosts:   &fakeFixedCostService{},
		groups:       &fakeProductGroupService{},
	}
	NewServer(ServerParams{
		Gin:             ts.engine,
		AuthzSvc:        authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		ProductSvc:      ts.products,
		RawMaterialSvc:  ts.rawMaterials,
		FreightSvc:      ts.freights,
		FixedCostSvc:    ts.fixedCosts,
		ProductGroupSvc: ts.groups,
		Refrepo:         reference.NewRepository(),
		SimulateLimiter: limiter,
	})
	return ts
}

func (ts *testServer) do(method, path, role string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(HeaderUserID, "42")
		req.Header.Set(HeaderUserRole, role)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func simulateBody() map[string]any {
	return map[string]any{
		"rawMaterials": []map[string]any{{"rawMaterialId": "1001", "quantity": 5}},
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSimulateRequiresActor(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/products/simulate", "", simulateBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, ts.products.simulated)
}

func TestSimulateRoleGate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/products/simulate", "logistica", simulateBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/api/products/simulate", "comercial", simulateBody())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.products.simulated, 1)
	assert.Equal(t, "1001", ts.products.simulated[0].RawMaterials[0].RawMaterialID)

	var resp struct {
		Data struct {
			Summary map[string]json.Number `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, json.Number("888.93"), resp.Data.Summary["priceWithTaxesAndFreight"])
}

func TestSimulateLineErrorNamesField(t *testing.T) {
	ts := newTestServer(t)
	ts.products.err = &pricingdomain.LineError{Index: 1, Err: pricingdomain.ErrDuplicateRawMaterial}

	rec := ts.do(http.MethodPost, "/api/products/simulate", "admin", simulateBody())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decodeError(t, rec)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "rawMaterials[1].rawMaterialId", payload.Errors[0].Field)
	assert.Equal(t, "duplicate_raw_material", payload.Errors[0].Code)
}

func TestSimulateMissingFixedCostIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.products.err = pricingdomain.ErrFixedCostNotFound

	rec := ts.do(http.MethodPost, "/api/products/simulate", "admin", simulateBody())
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fixed cost not found", decodeError(t, rec).Message)
}

func TestSimulateRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products/simulate", bytes.NewBufferString("{"))
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderUserRole, "admin")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Errors[0].Code)
}

func TestCreateProductConflict(t *testing.T) {
	ts := newTestServer(t)
	ts.products.err = productdomain.ErrCodeConflict

	rec := ts.do(http.MethodPost, "/api/products", "comercial", map[string]any{"code": "1001", "name": "Garrafa"})
	require.Equal(t, http.StatusConflict, rec.Code)

	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "code", payload.Errors[0].Field)
	assert.Equal(t, "code_conflict", payload.Errors[0].Code)
}

func TestCreateProductPropagatesActor(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/products", "comercial", map[string]any{"code": " 1001 ", "name": "Garrafa"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "42", ts.products.actor)
}

func TestListProductsRendersMeta(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/products?page=1&page_size=5", "imposto", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []map[string]any   `json:"data"`
		Meta pagination.PageInfo `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 5, resp.Meta.PageSize)
}

func TestListProductsRejectsBadPage(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/products?page=abc", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductIncludeCalculations(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/products/77?include_calculations=true", "comercial", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "77", ts.products.getReq.ID)
	assert.True(t, ts.products.getReq.IncludeCalculations)

	rec = ts.do(http.MethodGet, "/api/products/77?include_calculations=maybe", "comercial", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.products.err = productdomain.ErrNotFound

	rec := ts.do(http.MethodDelete, "/api/products/77", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRawMaterialInUse(t *testing.T) {
	ts := newTestServer(t)
	ts.rawMaterials.err = rawmaterialdomain.ErrInUse

	rec := ts.do(http.MethodDelete, "/api/raw-materials/5", "imposto", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "raw_material_in_use", decodeError(t, rec).Errors[0].Code)
}

func TestRawMaterialFreightNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.rawMaterials.err = rawmaterialdomain.ErrFreightNotFound

	rec := ts.do(http.MethodPost, "/api/raw-materials", "imposto", map[string]any{"code": "MP-001"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "freight not found", decodeError(t, rec).Message)
}

func TestFreightValidationField(t *testing.T) {
	ts := newTestServer(t)
	ts.freights.err = freightdomain.ErrInvalidUnitPrice

	rec := ts.do(http.MethodPost, "/api/freights", "logistica", map[string]any{"name": "Rota", "unitPrice": "0"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "unitPrice", payload.Errors[0].Field)
	assert.Equal(t, "invalid_unit_price", payload.Errors[0].Code)
}

func TestFreightWriteForbiddenForImposto(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/freights", "imposto", map[string]any{"name": "Rota"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodGet, "/api/freights", "imposto", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteFixedCostReportsDetachedProducts(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodDelete, "/api/fixed-costs/9", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data fixedcostdomain.DeleteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.AffectedProducts.Count)
	assert.Equal(t, "fixedCostId set to null", body.Data.AffectedProducts.Action)

	ts.fixedCosts.err = fixedcostdomain.ErrNotFound
	rec = ts.do(http.MethodDelete, "/api/fixed-costs/9", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculateFixedCostOverhead(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/fixed-costs/9/calculate-overhead", "admin", map[string]any{
		"applyToProducts": true,
		"productIds":      []string{"1", "2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", ts.fixedCosts.overheadReq.ID)
	assert.True(t, ts.fixedCosts.overheadReq.ApplyToProducts)
	assert.Equal(t, []string{"1", "2"}, ts.fixedCosts.overheadReq.ProductIDs)

	rec = ts.do(http.MethodPost, "/api/fixed-costs/9/calculate-overhead", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ts.fixedCosts.overheadReq.ApplyToProducts)

	rec = ts.do(http.MethodPost, "/api/fixed-costs/9/calculate-overhead", "comercial", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ts.fixedCosts.err = fixedcostdomain.ErrInvalidProductIDs
	rec = ts.do(http.MethodPost, "/api/fixed-costs/9/calculate-overhead", "admin", map[string]any{"productIds": []string{"x"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "productIds", decodeError(t, rec).Errors[0].Field)
}

func TestFreightStatisticsRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/freights/statistics", "logistica", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Total  int64 `json:"total"`
			Prices struct {
				Average *string `json:"average"`
				Min     *string `json:"min"`
			} `json:"prices"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Total)
	require.NotNil(t, body.Data.Prices.Average)
	assert.Equal(t, "7.5", *body.Data.Prices.Average)
	assert.Nil(t, body.Data.Prices.Min)
}

func TestRecentRawMaterialChanges(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/raw-materials/recent-changes?limit=5", "comercial", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, ts.rawMaterials.recentLimit)
	assert.Contains(t, rec.Body.String(), `"rawMaterialId":"5"`)

	rec = ts.do(http.MethodGet, "/api/raw-materials/recent-changes?limit=0", "comercial", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "limit", decodeError(t, rec).Errors[0].Field)
}

func TestProductGroupRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/product-groups", "comercial", map[string]any{"name": "Linha"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/product-groups/6", "comercial", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/product-groups/6", "admin", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/api/product-groups", "logistica", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ts.groups.err = productgroupdomain.ErrNameConflict
	rec = ts.do(http.MethodPost, "/api/product-groups", "admin", map[string]any{"name": "Linha"})
	require.Equal(t, http.StatusConflict, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "name", payload.Errors[0].Field)
	assert.Equal(t, "name already in use", payload.Message)
}

func TestProductGroupNotFoundOnProductCreate(t *testing.T) {
	ts := newTestServer(t)
	ts.products.err = productdomain.ErrProductGroupNotFound

	rec := ts.do(http.MethodPost, "/api/products", "comercial", map[string]any{"code": "1", "productGroupId": "99"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product group not found", decodeError(t, rec).Message)
}

func TestUnknownRoleForbidden(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/products", "guest", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReferenceStates(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/reference/states", "logistica", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 27)

	rec = ts.do(http.MethodGet, "/api/reference/states", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/unknown", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalErrorsAreMasked(t *testing.T) {
	ts := newTestServer(t)
	ts.products.err = errors.New("pq: connection reset")

	rec := ts.do(http.MethodGet, "/api/products", "admin", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec).Message)
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "priceConvertedBrl", camelCase("price_converted_brl"))
	assert.Equal(t, "name", camelCase("name"))
	assert.Equal(t, "originUf", validationErrorField("invalid_origin_uf"))
}

type bucketScripter struct {
	reply []interface{}
}

func (b *bucketScripter) cmd(ctx context.Context) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	cmd.SetVal(b.reply)
	return cmd
}

func (b *bucketScripter) Eval(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return b.cmd(ctx)
}

func (b *bucketScripter) EvalSha(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return b.cmd(ctx)
}

func (b *bucketScripter) EvalRO(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return b.cmd(ctx)
}

func (b *bucketScripter) EvalShaRO(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return b.cmd(ctx)
}

func (b *bucketScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (b *bucketScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestSimulateRateLimited(t *testing.T) {
	limiter := ratelimit.NewSimulateLimiterWithClient(
		&bucketScripter{reply: []interface{}{int64(0), "0.2", int64(1700000000000)}},
		2, 10, zap.NewNop(),
	)
	ts := newTestServerWithLimiter(t, limiter)

	rec := ts.do(http.MethodPost, "/api/products/simulate", "comercial", simulateBody())
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Empty(t, ts.products.simulated)
}

func TestSimulateWithinLimit(t *testing.T) {
	limiter := ratelimit.NewSimulateLimiterWithClient(
		&bucketScripter{reply: []interface{}{int64(1), "9", int64(1700000000000)}},
		2, 10, zap.NewNop(),
	)
	ts := newTestServerWithLimiter(t, limiter)

	rec := ts.do(http.MethodPost, "/api/products/simulate", "comercial", simulateBody())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
}
