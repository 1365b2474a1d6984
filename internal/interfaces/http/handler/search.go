package handler

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	cityapp "github.com/itou/backend/internal/application/city"
	siaeapp "github.com/itou/backend/internal/application/siae"
	"github.com/itou/backend/internal/interfaces/http/middleware"
)

// districtParamPrefix prefixes the per city district filters
// (districts_75, districts_69, districts_13)
const districtParamPrefix = "districts_"

// SearchHandler serves the public structure search
type SearchHandler struct {
	BaseHandler
	search *siaeapp.SearchService
	cities *cityapp.Service
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(search *siaeapp.SearchService, cities *cityapp.Service) *SearchHandler {
	return &SearchHandler{search: search, cities: cities}
}

// SearchSiaes godoc
// @Summary      Search structures
// @Description  Structures around a city, nearest first
// @Tags         search
// @Produce      json
// @Param        city query string true "City slug"
// @Param        distance query int false "Radius in km"
// @Param        kinds query []string false "Structure kinds" collectionFormat(multi)
// @Param        departments query []string false "Departments" collectionFormat(multi)
// @Success      200 {object} dto.Response{data=siaeapp.SearchResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /search/siaes/results [get]
func (h *SearchHandler) SearchSiaes(c *gin.Context) {
	var input siaeapp.SearchInput
	if err := c.ShouldBindQuery(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	input.Districts = append(input.Districts, districtParams(c)...)

	result, err := h.search.Search(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// AutocompleteCities godoc
// @Summary      Autocomplete cities
// @Description  Suggests cities for the search form
// @Tags         search
// @Produce      json
// @Param        term query string false "Start of the city name"
// @Success      200 {object} dto.Response{data=[]cityapp.CityResponse}
// @Router       /search/cities [get]
func (h *SearchHandler) AutocompleteCities(c *gin.Context) {
	cities, err := h.cities.Autocomplete(c.Request.Context(), c.Query("term"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cities)
}

func districtParams(c *gin.Context) []string {
	var out []string
	for key, values := range c.Request.URL.Query() {
		if strings.HasPrefix(key, districtParamPrefix) {
			out = append(out, values...)
		}
	}
	slices.Sort(out)
	return out
}
