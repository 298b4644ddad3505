//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"pricing-engine/internal/domain/admin"
	"pricing-engine/internal/handler/api"
	resdto "pricing-engine/internal/handler/dto/response"
	"pricing-engine/internal/usecase/commands"
	"pricing-engine/internal/usecase/queries"
	"pricing-engine/tests/common/builder"
	"pricing-engine/tests/common/httptest"
	"pricing-engine/tests/common/testutil"
	commandsmock "pricing-engine/tests/mock/commands"
	queriesmock "pricing-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RuleHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRuleCommands
	mockQueries  *queriesmock.MockRuleQueries
	handler      *api.RuleHandler
}

func (s *RuleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRuleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockRuleQueries(s.mockCtrl)
	s.handler = api.NewRuleHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", admin.RoleAdmin)
		c.Next()
	}

	// Setup routes
	s.router.POST("/pricing/rules", authMiddleware, s.handler.Create)
	s.router.GET("/pricing/rules", authMiddleware, s.handler.List)
	s.router.GET("/pricing/rules/:id", authMiddleware, s.handler.Get)
	s.router.PUT("/pricing/rules/:id", authMiddleware, s.handler.Update)
	s.router.DELETE("/pricing/rules/:id", authMiddleware, s.handler.Delete)
}

func (s *RuleHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRuleHandlerSuite(t *testing.T) {
	suite.Run(t, new(RuleHandlerTestSuite))
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *RuleHandlerTestSuite) TestCreate() {
	url := "/pricing/rules"

	reqBody := builder.NewRuleBuilder().BuildRequestDTO()
	returnView := builder.NewRuleBuilder().BuildView()

	s.Run("success: returns 201 Created with RuleResponse", func() {
		s.mockCommands.EXPECT().CreateRule(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.RuleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.Name, response.Name)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: name (required)", mutate: testutil.Field("name", nil)},
			{name: "empty name", mutate: testutil.Field("name", "")},
			{name: "missing field: formula (required)", mutate: testutil.Field("formula", nil)},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid rule document",
				commandsError:  commands.ErrInvalidRule,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid rule",
			},
			{
				name:           "duplicate rule name",
				commandsError:  commands.ErrDuplicateRuleName,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Rule name already exists",
			},
			{
				name:           "database failure",
				commandsError:  commands.ErrDatabaseOperationFailed,
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateRule(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *RuleHandlerTestSuite) TestGet() {
	url := "/pricing/rules/42"

	returnView := builder.NewRuleBuilder().WithID(42).BuildView()

	s.Run("success: returns 200 OK with RuleResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.RuleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(42), response.ID)
		s.Equal(returnView.Name, response.Name)
		s.Equal(returnView.Priority, response.Priority)
	})

	s.Run("error: 400 Bad Request for non-numeric id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/pricing/rules/not-a-number", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found for missing rule", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(nil, errors.New("not found")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *RuleHandlerTestSuite) TestList() {
	url := "/pricing/rules"

	items := []*queries.RuleListItem{
		builder.NewRuleBuilder().WithID(1).WithPriority(10).BuildListItem(),
		builder.NewRuleBuilder().WithID(2).WithPriority(5).BuildListItem(),
	}

	s.Run("success: returns rule list", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), queries.RuleFilter{}).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		rules, ok := response["rules"].([]any)
		s.True(ok)
		s.Equal(len(items), len(rules))
	})

	s.Run("success: filters are forwarded", func() {
		group := "wholesale"
		s.mockQueries.EXPECT().List(gomock.Any(), queries.RuleFilter{ActiveOnly: true, TargetGroup: &group}).
			Return(items[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?active_only=true&target_group=wholesale", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: returns 500 Internal Server Error on query error", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), queries.RuleFilter{}).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *RuleHandlerTestSuite) TestUpdate() {
	url := "/pricing/rules/42"

	reqBody := builder.NewRuleBuilder().BuildRequestDTO()
	returnView := builder.NewRuleBuilder().WithID(42).BuildView()

	s.Run("success: returns 200 OK with updated rule", func() {
		s.mockCommands.EXPECT().UpdateRule(gomock.Any(), int64(42), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")

		var response resdto.RuleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(42), response.ID)
	})

	s.Run("error: 400 Bad Request for non-numeric id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/pricing/rules/not-a-number", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "rule not found",
				commandsError:  commands.ErrRuleNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Not found",
			},
			{
				name:           "invalid rule document",
				commandsError:  commands.ErrInvalidRule,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid rule",
			},
			{
				name:           "duplicate rule name",
				commandsError:  commands.ErrDuplicateRuleName,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Rule name already exists",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().UpdateRule(gomock.Any(), int64(42), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *RuleHandlerTestSuite) TestDelete() {
	url := "/pricing/rules/42"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().DeleteRule(gomock.Any(), int64(42)).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for non-numeric id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/pricing/rules/not-a-number", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found for missing rule", func() {
		s.mockCommands.EXPECT().DeleteRule(gomock.Any(), int64(42)).
			Return(commands.ErrRuleNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
