package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestListUnpagedWritesBareArray(t *testing.T) {
	c, w := newContext()
	List(c, "courses", []string{"a", "b"}, 2, false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["a","b"]`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestListPagedWritesKeyedEnvelope(t *testing.T) {
	c, w := newContext()
	List(c, "subjects", []string{"a"}, 14, true)

	assert.JSONEq(t, `{"subjects":["a"],"total":14}`, w.Body.String())
}

func TestErrorUsesStatusAndCode(t *testing.T) {
	c, w := newContext()
	Error(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "course not found", body.Error.Message)
}

func TestCreatedWrapsData(t *testing.T) {
	c, w := newContext()
	Created(c, map[string]string{"id": "c1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"id":"c1"}}`, w.Body.String())
}
