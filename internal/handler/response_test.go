package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantDetails bool
		wantLeak    string
	}{
		{
			name:        "not found",
			err:         apperrors.NotFound("Penalty"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Penalty not found.",
		},
		{
			name:        "details are exposed",
			err:         apperrors.ErrUsersNotFound.WithDetails([]string{uuid.Nil.String()}),
			wantStatus:  http.StatusBadRequest,
			wantDetails: true,
		},
		{
			name:        "internal errors are masked",
			err:         apperrors.WrapError(apperrors.ErrInternal, errors.New("pq: relation users does not exist")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An error occurred while processing your request.",
			wantLeak:    "relation users",
		},
		{
			name:        "plain errors are masked",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An error occurred while processing your request.",
			wantLeak:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c.Request.Context(), c, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
			if tt.wantDetails {
				assert.NotEmpty(t, body["details"])
			}
			if tt.wantLeak != "" {
				assert.NotContains(t, rec.Body.String(), tt.wantLeak)
				assert.NotEmpty(t, body["timestamp"])
			}
		})
	}
}

func TestParseID(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	_, ok := parseID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := parseID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestActorID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, actorID(c))
}
