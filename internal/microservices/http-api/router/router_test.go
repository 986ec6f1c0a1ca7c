package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"mediahub/database"
	"mediahub/internal/events"
)

// CatalogSuite drives the full stack against an in-memory sqlite database.
type CatalogSuite struct {
	suite.Suite
	db     *gorm.DB
	engine *gin.Engine
	events *events.Recorder
}

func (s *CatalogSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	name := strings.NewReplacer("/", "_").Replace(s.T().Name())
	db, err := database.Open(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	s.Require().NoError(err)

	s.db = db
	s.events = &events.Recorder{}
	s.engine = New(Deps{DB: db, Events: s.events})
}

func (s *CatalogSuite) TearDownTest() {
	s.NoError(database.Close(s.db))
}

func (s *CatalogSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *CatalogSuite) createMedia(title, date string, rating float64) int64 {
	w := s.do(http.MethodPost, "/media", map[string]any{
		"title": title, "releaseDate": date, "averageRating": rating, "type": "MOVIE",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out.ID
}

func (s *CatalogSuite) createUser(name string, age int) int64 {
	w := s.do(http.MethodPost, "/user", map[string]any{"name": name, "age": age, "gender": "OTHER"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out.ID
}

func (s *CatalogSuite) TestHealthAndMetrics() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "catalog_http_requests_total")
}

func (s *CatalogSuite) TestMediaLifecycle() {
	id := s.createMedia("Back to the Future", "1985-07-03", 8.5)

	w := s.do(http.MethodGet, fmt.Sprintf("/media/%d", id), nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(fmt.Sprintf(`{"id":%d,"title":"Back to the Future","releaseDate":"1985-07-03","averageRating":8.5,"type":"MOVIE","userIds":[]}`, id), w.Body.String())

	w = s.do(http.MethodPut, fmt.Sprintf("/media/%d", id), map[string]any{
		"title": "Back to the Future", "releaseDate": "1985-07-03", "averageRating": 9.1, "type": "MOVIE",
	})
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/media/%d", id), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"averageRating":9.1`)

	w = s.do(http.MethodGet, fmt.Sprintf("/media/%d", id), nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/media/%d", id), nil)
	s.Equal(http.StatusNotFound, w.Code)

	types := []events.Type{}
	for _, e := range s.events.Events() {
		types = append(types, e.Type)
	}
	s.Equal([]events.Type{events.MediaCreated, events.MediaUpdated, events.MediaDeleted}, types)
}

func (s *CatalogSuite) TestRatingOutsideTenRoundTrips() {
	for _, rating := range []float64{10.5, -1} {
		id := s.createMedia("Odd Rating", "2001-01-01", rating)

		w := s.do(http.MethodGet, fmt.Sprintf("/media/%d", id), nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), fmt.Sprintf(`"averageRating":%g`, rating))

		w = s.do(http.MethodPut, fmt.Sprintf("/media/%d", id), map[string]any{
			"title": "Odd Rating", "releaseDate": "2001-01-01", "averageRating": rating * 2, "type": "MOVIE",
		})
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	}
}

func (s *CatalogSuite) TestSubscriptions() {
	m1 := s.createMedia("Heat", "1995-12-15", 8.3)
	m2 := s.createMedia("Ronin", "1998-09-25", 7.2)
	ann := s.createUser("ann", 30)
	bob := s.createUser("bob", 50)

	w := s.do(http.MethodPost, fmt.Sprintf("/user-media?userId=%d&mediaId=%d", ann, m1), nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/media/users", map[string]any{"userId": bob, "mediaId": m1})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, fmt.Sprintf("/user-media?userId=%d&mediaId=%d", ann, m1), nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/user-media?userId=%d&mediaId=%d", ann, 9999), nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/media/%d/users", m1), nil)
	s.JSONEq(fmt.Sprintf("[%d,%d]", ann, bob), w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/media/%d/users?limit=1", m1), nil)
	s.JSONEq(fmt.Sprintf("[%d]", ann), w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/media/%d/users?limit=1", m2), nil)
	s.JSONEq("[]", w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/user/%d/media", ann), nil)
	s.JSONEq(fmt.Sprintf("[%d]", m1), w.Body.String())

	w = s.do(http.MethodDelete, fmt.Sprintf("/media/%d/%d", m1, bob), nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/user-media/media/%d", m1), nil)
	var links []map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &links))
	s.Require().Len(links, 1)

	linkID := int64(links[0]["id"].(float64))
	w = s.do(http.MethodDelete, fmt.Sprintf("/user-media/%d", linkID), nil)
	s.Equal(http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, fmt.Sprintf("/user-media/%d", linkID), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CatalogSuite) TestDeletingUserDropsSubscriptions() {
	m := s.createMedia("Heat", "1995-12-15", 8.3)
	u := s.createUser("ann", 30)
	w := s.do(http.MethodPost, "/media/users", map[string]any{"userId": u, "mediaId": m})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/user/%d", u), nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/media/%d", m), nil)
	s.Contains(w.Body.String(), `"userIds":[]`)
}

func (s *CatalogSuite) TestValidation() {
	w := s.do(http.MethodPost, "/media", map[string]any{"title": "", "releaseDate": "1985", "type": "BOOK"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/user/abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func TestHealth_DatabaseClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.Open(database.DriverSQLite, "file:health_closed?mode=memory&cache=shared")
	require.NoError(t, err)
	engine := New(Deps{DB: db})
	require.NoError(t, database.Close(db))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
