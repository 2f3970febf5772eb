package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hyeonsu-lee/goboard/services"
)

func searchRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	ctrl := NewPostController(services.NewPostService(db, services.NewUploadService(db, t.TempDir())))

	r := gin.New()
	r.GET("/api/v1/search", ctrl.Search)
	return r, mock
}

func expectEmptySearch(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT count(.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestSearchReadsQueryParameter(t *testing.T) {
	r, mock := searchRouter(t)
	expectEmptySearch(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=hello&type=title", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"query":"hello"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAcceptsShortQueryAlias(t *testing.T) {
	r, mock := searchRouter(t)
	expectEmptySearch(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=hello", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchMissingTermRejected(t *testing.T) {
	r, mock := searchRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?type=title", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "no storage access for an empty term")
}
