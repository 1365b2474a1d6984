package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	cityapp "github.com/itou/backend/internal/application/city"
	siaeapp "github.com/itou/backend/internal/application/siae"
	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/domain/geo"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/itou/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type searchFixture struct {
	cities *MockCityRepository
	siaes  *MockSiaeRepository
	router *gin.Engine
}

func newSearchFixture(t *testing.T) *searchFixture {
	f := &searchFixture{
		cities: new(MockCityRepository),
		siaes:  new(MockSiaeRepository),
	}
	log := zaptest.NewLogger(t)
	h := NewSearchHandler(
		siaeapp.NewSearchService(f.cities, f.siaes, log),
		cityapp.NewService(f.cities, f.siaes, log),
	)

	f.router = gin.New()
	f.router.Use(middleware.RequestID())
	f.router.GET("/search/siaes/results", h.SearchSiaes)
	f.router.GET("/search/cities", h.AutocompleteCities)
	return f
}

func (f *searchFixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

type searchBody struct {
	Success bool                 `json:"success"`
	Data    siaeapp.SearchResult `json:"data"`
}

func paris() *city.City {
	return &city.City{
		ID:         1,
		Name:       "Paris",
		Slug:       "paris-75",
		Department: "75",
		Coords:     &geo.Point{Lon: 2.3522, Lat: 48.8566},
	}
}

func TestSearchHandler_SearchSiaes(t *testing.T) {
	t.Run("filters by paris districts", func(t *testing.T) {
		f := newSearchFixture(t)
		f.cities.On("FindBySlug", mock.Anything, "paris-75").Return(paris(), nil)
		f.siaes.On("Within", mock.Anything, mock.MatchedBy(func(filter siae.SearchFilter) bool {
			return filter.RadiusKm == 25 && assert.ObjectsAreEqual([]string{"75001", "75010"}, filter.PostCodes)
		})).Return([]siae.LocatedSiae{{
			Siae: siae.Siae{
				Kind:     siae.KindEI,
				Name:     "Garage Solidaire",
				PostCode: "75010",
				City:     "Paris",
				Coords:   &geo.Point{Lon: 2.3601, Lat: 48.8760},
			},
		}}, nil)

		w := f.get("/search/siaes/results?city=paris-75&districts_75=75010&districts_75=75001")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body searchBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "Paris (75)", body.Data.City)
		assert.Equal(t, 1, body.Data.Count)
		require.Len(t, body.Data.Results, 1)
		assert.Equal(t, "75010", body.Data.Results[0].PostCode)
		require.NotNil(t, body.Data.Results[0].DistanceKm)
		f.siaes.AssertExpectations(t)
	})

	t.Run("district of another department gives 400", func(t *testing.T) {
		f := newSearchFixture(t)
		f.cities.On("FindBySlug", mock.Anything, "paris-75").Return(paris(), nil)

		w := f.get("/search/siaes/results?city=paris-75&districts_13=13001")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.siaes.AssertNotCalled(t, "Within", mock.Anything, mock.Anything)
	})

	t.Run("missing city gives 400", func(t *testing.T) {
		f := newSearchFixture(t)

		w := f.get("/search/siaes/results?distance=10")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"city"`)
	})

	t.Run("unknown city gives an empty result", func(t *testing.T) {
		f := newSearchFixture(t)
		f.cities.On("FindBySlug", mock.Anything, "atlantis-00").Return(nil, shared.ErrNotFound)

		w := f.get("/search/siaes/results?city=atlantis-00")

		require.Equal(t, http.StatusOK, w.Code)
		var body searchBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Zero(t, body.Data.Count)
		assert.NotEmpty(t, body.Data.Message)
	})

	t.Run("distance out of bounds gives 400", func(t *testing.T) {
		f := newSearchFixture(t)

		w := f.get("/search/siaes/results?city=paris-75&distance=500")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSearchHandler_AutocompleteCities(t *testing.T) {
	f := newSearchFixture(t)
	f.cities.On("SearchByName", mock.Anything, "par", cityapp.AutocompleteLimit).
		Return([]city.City{*paris()}, nil)

	w := f.get("/search/cities?term=par")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"paris-75"`)
	assert.Contains(t, w.Body.String(), `"name":"Paris (75)"`)
}
