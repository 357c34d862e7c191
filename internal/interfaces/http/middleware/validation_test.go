package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vetclinic/backend/internal/interfaces/http/dto"
)

type expenseForm struct {
	Category    string          `json:"category" binding:"required,oneof=Supplies Utilities"`
	Description string          `json:"description" binding:"required,max=10"`
	ClientID    string          `json:"client_id" binding:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"money"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/expenses", func(c *gin.Context) {
		var req expenseForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_ListsFields(t *testing.T) {
	w := postJSON(validationRouter(), "/expenses", `{"category":"Travel","description":"far too long text","client_id":"nope"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	got := map[string]dto.ValidationDetail{}
	for _, d := range resp.Error.Details {
		got[d.Field] = d
	}
	require.Len(t, got, 3)
	assert.Equal(t, "Must be one of: Supplies Utilities", got["category"].Message)
	assert.Equal(t, "Must be at most 10 characters", got["description"].Message)
	assert.Equal(t, "uuid", got["client_id"].Tag)
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	w := postJSON(validationRouter(), "/expenses", `{"category":`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestHandleValidationError_ValidInputPasses(t *testing.T) {
	w := postJSON(validationRouter(), "/expenses", `{"category":"Supplies","description":"Gloves"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMoneyTag(t *testing.T) {
	router := validationRouter()
	tests := []struct {
		amount string
		want   int
	}{
		{`"1500.50"`, http.StatusOK},
		{`0`, http.StatusOK},
		{`"250.00"`, http.StatusOK},
		{`"-1"`, http.StatusBadRequest},
		{`"10.005"`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			w := postJSON(router, "/expenses", `{"category":"Supplies","description":"Gloves","amount":`+tt.amount+`}`)
			require.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusBadRequest {
				var resp dto.Response
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Len(t, resp.Error.Details, 1)
				assert.Equal(t, "amount", resp.Error.Details[0].Field)
				assert.Equal(t, "money", resp.Error.Details[0].Tag)
			}
		})
	}
}
