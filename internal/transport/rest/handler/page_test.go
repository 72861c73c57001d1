package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascendant/internal/static"
)

func TestPageHandler_ServesFromGivenFS(t *testing.T) {
	h := NewPageHandler(fstest.MapFS{
		static.PageName: {Data: []byte("<html>override</html>")},
		"logo.svg":      {Data: []byte("<svg/>")},
	})

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>override</html>", rec.Body.String())

	rec = httptest.NewRecorder()
	h.Assets(rec, httptest.NewRequest("GET", "/logo.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg/>", rec.Body.String())
}

func TestPageHandler_MissingPage(t *testing.T) {
	h := NewPageHandler(fstest.MapFS{})

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"page unavailable"}`, rec.Body.String())
}
