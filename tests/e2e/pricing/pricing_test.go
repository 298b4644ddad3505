//go:build e2e

package pricing_test

import (
	"net/http"
	"strconv"
	"testing"

	"pricing-engine/internal/domain/admin"
	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/handler/dto/request"
	"pricing-engine/internal/handler/dto/response"
	"pricing-engine/tests/common/authtest"
	"pricing-engine/tests/common/builder"
	"pricing-engine/tests/common/dbtest"
	"pricing-engine/tests/common/httptest"
	"pricing-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	rulesURL = "/api/pricing/rules"
	quoteURL = "/api/pricing/quote"
)

type PricingSuite struct {
	e2e.SharedSuite
}

func (s *PricingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestPricingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PricingSuite))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func conditionsForProduct(ids ...int64) pricing.Conditions {
	return pricing.Conditions{ProductIDs: ids}
}

func (s *PricingSuite) token(role admin.Role) string {
	return authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), uuid.New(), role)
}

func (s *PricingSuite) createRule(t *testing.T, req request.RuleRequest, token string) response.RuleResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, rulesURL, req, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.RuleResponse
	err := httptest.DecodeResponseBody(t, w.Body, &created)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	return created
}

// =============================================================================
// TestRuleLifecycle - Rule CRUD API tests
// =============================================================================

func (s *PricingSuite) TestRuleLifecycle() {
	s.Run("Normal case: Admin can create, read, update, and delete a rule", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		createReq := builder.NewRuleBuilder().
			WithName("Winter markup").
			WithPriority(10).
			AsFixedPrice(200).
			BuildRequestDTO()
		created := s.createRule(t, createReq, adminToken)

		detailURL := rulesURL + "/" + itoa(created.ID)
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, detailURL, nil, adminToken)
		require.Equal(t, http.StatusOK, dw.Code)

		var actual response.RuleResponse
		err := httptest.DecodeResponseBody(t, dw.Body, &actual)
		require.NoError(t, err)

		expected := &response.RuleResponse{
			ID:       created.ID,
			Name:     "Winter markup",
			Priority: 10,
			IsActive: true,
			Formula:  createReq.Formula,
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.RuleResponse{}, "Conditions", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &actual, opts...); diff != "" {
			t.Errorf("Rule response mismatch (-want +got):\n%s", diff)
		}

		updateReq := createReq
		updateReq.Name = "Winter markup v2"
		updateReq.Priority = 20
		uw := httptest.PerformRequest(t, s.Router, http.MethodPut, detailURL, updateReq, adminToken)
		require.Equal(t, http.StatusOK, uw.Code, uw.Body.String())

		var updated response.RuleResponse
		err = httptest.DecodeResponseBody(t, uw.Body, &updated)
		require.NoError(t, err)
		require.Equal(t, "Winter markup v2", updated.Name)
		require.Equal(t, 20, updated.Priority)

		delw := httptest.PerformRequest(t, s.Router, http.MethodDelete, detailURL, nil, adminToken)
		require.Equal(t, http.StatusNoContent, delw.Code)

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, detailURL, nil, adminToken)
		require.Equal(t, http.StatusNotFound, gw.Code)

		count, err := dbtest.CountRules(s.DB)
		require.NoError(t, err)
		require.Zero(t, count, "Rule should be removed from storage")
	})

	s.Run("Error case: Duplicate rule name is rejected", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		createReq := builder.NewRuleBuilder().WithName("Unique name").BuildRequestDTO()
		s.createRule(t, createReq, adminToken)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, rulesURL, createReq, adminToken)
		require.Equal(t, http.StatusConflict, w.Code, "Should reject a second rule with the same name")
	})

	s.Run("Error case: Operator cannot mutate rules", func() {
		t := s.T()
		operatorToken := s.token(admin.RoleOperator)

		createReq := builder.NewRuleBuilder().BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, rulesURL, createReq, operatorToken)
		require.Equal(t, http.StatusForbidden, w.Code, "Rule mutations require the admin role")
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		createReq := builder.NewRuleBuilder().BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, rulesURL, createReq, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "Should reject unauthorized access")
	})
}

// =============================================================================
// TestListRules - Rule list API tests
// =============================================================================

func (s *PricingSuite) TestListRules() {
	s.Run("Normal case: List returns stored rules with filters applied", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		s.createRule(t, builder.NewRuleBuilder().
			WithName("Active wholesale").
			WithTargetGroup("wholesale").
			BuildRequestDTO(), adminToken)
		s.createRule(t, builder.NewRuleBuilder().
			WithName("Inactive retail").
			WithActive(false).
			BuildRequestDTO(), adminToken)

		viewerToken := s.token(admin.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, rulesURL, nil, viewerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var all struct {
			Rules []*response.RuleListItemResponse `json:"rules"`
		}
		err := httptest.DecodeResponseBody(t, w.Body, &all)
		require.NoError(t, err)
		require.Len(t, all.Rules, 2, "Should return all stored rules")

		fw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			rulesURL+"?active_only=true&target_group=wholesale", nil, viewerToken)
		require.Equal(t, http.StatusOK, fw.Code)

		var filtered struct {
			Rules []*response.RuleListItemResponse `json:"rules"`
		}
		err = httptest.DecodeResponseBody(t, fw.Body, &filtered)
		require.NoError(t, err)
		require.Len(t, filtered.Rules, 1)
		require.Equal(t, "Active wholesale", filtered.Rules[0].Name)
	})
}

// =============================================================================
// TestQuote - Quote API tests
// =============================================================================

func (s *PricingSuite) TestQuote() {
	s.Run("Normal case: Matching rule prices the quote with charm rounding", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		s.createRule(t, builder.NewRuleBuilder().
			WithName("Fixed price for product 7").
			WithConditions(conditionsForProduct(7)).
			AsFixedPrice(200).
			BuildRequestDTO(), adminToken)

		base := 100.0
		quoteReq := request.QuoteRequest{
			ProductID: 7,
			Quantity:  1,
			BasePrice: &base,
		}

		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, quoteReq, operatorToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var quote response.QuoteResponse
		err := httptest.DecodeResponseBody(t, w.Body, &quote)
		require.NoError(t, err)
		require.InDelta(t, 199.99, quote.FinalPrice, 1e-9)
		require.False(t, quote.Degraded)
		require.NotNil(t, quote.Match)
		require.Equal(t, "Fixed price for product 7", quote.Match.Name)
	})

	s.Run("Normal case: No matching rule falls back to the base price", func() {
		t := s.T()

		base := 100.0
		quoteReq := request.QuoteRequest{
			ProductID: 7,
			Quantity:  1,
			BasePrice: &base,
		}

		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, quoteReq, operatorToken)
		require.Equal(t, http.StatusOK, w.Code)

		var quote response.QuoteResponse
		err := httptest.DecodeResponseBody(t, w.Body, &quote)
		require.NoError(t, err)
		require.InDelta(t, 99.99, quote.FinalPrice, 1e-9)
		require.Nil(t, quote.Match)
	})

	s.Run("Normal case: Tax override is applied before rounding", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		s.createRule(t, builder.NewRuleBuilder().
			WithName("Fixed 100").
			AsFixedPrice(100).
			BuildRequestDTO(), adminToken)

		base := 50.0
		tax := 0.19
		quoteReq := request.QuoteRequest{
			ProductID:  1,
			Quantity:   1,
			BasePrice:  &base,
			TaxPercent: &tax,
		}

		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, quoteReq, operatorToken)
		require.Equal(t, http.StatusOK, w.Code)

		var quote response.QuoteResponse
		err := httptest.DecodeResponseBody(t, w.Body, &quote)
		require.NoError(t, err)
		require.InDelta(t, 100, quote.PreTaxPrice, 1e-9)
		require.InDelta(t, 119, quote.WithTaxPrice, 1e-9)
		require.InDelta(t, 119.99, quote.FinalPrice, 1e-9)
	})

	s.Run("Normal case: Degraded quote reports the formula error", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		s.createRule(t, builder.NewRuleBuilder().
			WithName("Needs cost price").
			BuildRequestDTO(), adminToken)

		base := 100.0
		quoteReq := request.QuoteRequest{
			ProductID: 1,
			Quantity:  1,
			BasePrice: &base,
		}

		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, quoteReq, operatorToken)
		require.Equal(t, http.StatusOK, w.Code)

		var quote response.QuoteResponse
		err := httptest.DecodeResponseBody(t, w.Body, &quote)
		require.NoError(t, err)
		require.True(t, quote.Degraded)
		require.NotNil(t, quote.FormulaError)
		require.NotNil(t, quote.Match)
		require.InDelta(t, 99.99, quote.FinalPrice, 1e-9, "Should fall back to the base price")
	})

	s.Run("Error case: Viewer cannot request quotes", func() {
		t := s.T()

		base := 100.0
		quoteReq := request.QuoteRequest{
			ProductID: 1,
			Quantity:  1,
			BasePrice: &base,
		}

		viewerToken := s.token(admin.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, quoteReq, viewerToken)
		require.Equal(t, http.StatusForbidden, w.Code, "Quotes require at least the operator role")
	})
}

// =============================================================================
// TestRuleTest - Rule dry-run API tests
// =============================================================================

func (s *PricingSuite) TestRuleTest() {
	s.Run("Normal case: Dry run evaluates a single rule against a context", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		created := s.createRule(t, builder.NewRuleBuilder().
			WithName("Dry run target").
			WithConditions(conditionsForProduct(7)).
			AsFixedPrice(150).
			BuildRequestDTO(), adminToken)

		testReq := request.RuleTestRequest{
			ProductID: 7,
			Quantity:  1,
		}

		url := rulesURL + "/" + itoa(created.ID) + "/test"
		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, testReq, operatorToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.RuleTestResponse
		err := httptest.DecodeResponseBody(t, w.Body, &result)
		require.NoError(t, err)
		require.Equal(t, created.ID, result.RuleID)
		require.True(t, result.Matched)
		require.InDelta(t, 150, result.RawPrice, 1e-9)
		require.InDelta(t, 149.99, result.FinalPrice, 1e-9)
	})

	s.Run("Normal case: Non-matching context still evaluates the formula", func() {
		t := s.T()
		adminToken := s.token(admin.RoleAdmin)

		created := s.createRule(t, builder.NewRuleBuilder().
			WithName("Other product only").
			WithConditions(conditionsForProduct(99)).
			AsFixedPrice(150).
			BuildRequestDTO(), adminToken)

		testReq := request.RuleTestRequest{
			ProductID: 7,
			Quantity:  1,
		}

		url := rulesURL + "/" + itoa(created.ID) + "/test"
		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, testReq, operatorToken)
		require.Equal(t, http.StatusOK, w.Code)

		var result response.RuleTestResponse
		err := httptest.DecodeResponseBody(t, w.Body, &result)
		require.NoError(t, err)
		require.False(t, result.Matched)
		require.InDelta(t, 150, result.RawPrice, 1e-9)
	})

	s.Run("Error case: Returns 404 Not Found for non-existent rule", func() {
		t := s.T()

		testReq := request.RuleTestRequest{
			ProductID: 1,
			Quantity:  1,
		}

		operatorToken := s.token(admin.RoleOperator)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, rulesURL+"/123456/test", testReq, operatorToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
