package city

import (
	"testing"

	"github.com/itou/backend/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Saint-André-des-Eaux (44)": "saint-andre-des-eaux-44",
		"Guérande-44":               "guerande-44",
		"Paris (75)":                "paris-75",
		"L'Haÿ-les-Roses":           "lhay-les-roses",
		"  Vannes   56 ":            "vannes-56",
		"Herblay-sur-Seine - 95":    "herblay-sur-seine-95",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugFor(t *testing.T) {
	assert.Equal(t, "saint-pere-marc-en-poulet-35", SlugFor("Saint-Père-Marc-en-Poulet", "35"))
}

func TestCity_DisplayNameAndRegion(t *testing.T) {
	c := &City{Name: "Vannes", Department: "56"}
	assert.Equal(t, "Vannes (56)", c.DisplayName())
	assert.Equal(t, "Bretagne", c.Region())
	assert.Nil(t, c.Latitude())
	assert.Nil(t, c.Longitude())

	c.Coords = &geo.Point{Lon: -2.8186843, Lat: 47.657641}
	require.NotNil(t, c.Latitude())
	assert.Equal(t, 47.657641, *c.Latitude())
	assert.Equal(t, -2.8186843, *c.Longitude())

	unknown := &City{Name: "Nowhere", Department: "00"}
	assert.Empty(t, unknown.Region())
}

func TestDistrictPostCodes(t *testing.T) {
	paris := DistrictPostCodes("75")
	require.Len(t, paris, 20)
	assert.Equal(t, "75001", paris[0])
	assert.Equal(t, "75020", paris[19])

	lyon := DistrictPostCodes("69")
	require.Len(t, lyon, 9)
	assert.Equal(t, "69009", lyon[8])

	marseille := DistrictPostCodes("13")
	require.Len(t, marseille, 16)
	assert.Equal(t, "13016", marseille[15])

	assert.Nil(t, DistrictPostCodes("44"))
}

func TestIsDepartment(t *testing.T) {
	assert.True(t, IsDepartment("44"))
	assert.True(t, IsDepartment("2A"))
	assert.True(t, IsDepartment("974"))
	assert.False(t, IsDepartment("20"))
}
