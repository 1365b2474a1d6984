package city

// regions maps each region to its department codes
var regions = map[string][]string{
	"Auvergne-Rhône-Alpes":       {"01", "03", "07", "15", "26", "38", "42", "43", "63", "69", "73", "74"},
	"Bourgogne-Franche-Comté":    {"21", "25", "39", "58", "70", "71", "89", "90"},
	"Bretagne":                   {"22", "29", "35", "56"},
	"Centre-Val de Loire":        {"18", "28", "36", "37", "41", "45"},
	"Corse":                      {"2A", "2B"},
	"Grand Est":                  {"08", "10", "51", "52", "54", "55", "57", "67", "68", "88"},
	"Hauts-de-France":            {"02", "59", "60", "62", "80"},
	"Île-de-France":              {"75", "77", "78", "91", "92", "93", "94", "95"},
	"Normandie":                  {"14", "27", "50", "61", "76"},
	"Nouvelle-Aquitaine":         {"16", "17", "19", "23", "24", "33", "40", "47", "64", "79", "86", "87"},
	"Occitanie":                  {"09", "11", "12", "30", "31", "32", "34", "46", "48", "65", "66", "81", "82"},
	"Pays de la Loire":           {"44", "49", "53", "72", "85"},
	"Provence-Alpes-Côte d'Azur": {"04", "05", "06", "13", "83", "84"},
	"Guadeloupe":                 {"971"},
	"Martinique":                 {"972"},
	"Guyane":                     {"973"},
	"La Réunion":                 {"974"},
	"Mayotte":                    {"976"},
	"Collectivités d'outre-mer":  {"975", "977", "978", "986", "987", "988"},
}

var departmentToRegion = func() map[string]string {
	m := make(map[string]string)
	for region, departments := range regions {
		for _, d := range departments {
			m[d] = region
		}
	}
	return m
}()

// RegionOf returns the region of a department code, empty when unknown
func RegionOf(department string) string {
	return departmentToRegion[department]
}

// IsDepartment reports whether the code is a known department
func IsDepartment(code string) bool {
	_, ok := departmentToRegion[code]
	return ok
}

// districtPostCodes lists the post codes of cities split into districts
var districtPostCodes = map[string][]string{
	"13": postCodeRange("130", 1, 16),
	"69": postCodeRange("6900", 1, 9),
	"75": postCodeRange("750", 1, 20),
}

// DistrictPostCodes returns the district post codes of a department with
// districts (Marseille 13, Lyon 69, Paris 75), nil otherwise
func DistrictPostCodes(department string) []string {
	return districtPostCodes[department]
}

func postCodeRange(prefix string, from, to int) []string {
	codes := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		suffix := string(rune('0'+i/10)) + string(rune('0'+i%10))
		if len(prefix) == 4 {
			suffix = string(rune('0' + i%10))
		}
		codes = append(codes, prefix+suffix)
	}
	return codes
}
