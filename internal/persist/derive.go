package persist

import "strings"

// departmentKeywords maps title substrings to a department classification.
// First hit wins, so more specific entries come first.
var departmentKeywords = []struct {
	keyword    string
	department string
}{
	{"data scien", "Data"},
	{"data engineer", "Data"},
	{"machine learning", "Data"},
	{"analyst", "Data"},
	{"devops", "Engineering"},
	{"sre", "Engineering"},
	{"site reliability", "Engineering"},
	{"security", "Engineering"},
	{"engineer", "Engineering"},
	{"developer", "Engineering"},
	{"architect", "Engineering"},
	{"qa", "Engineering"},
	{"designer", "Design"},
	{"ux", "Design"},
	{"ui", "Design"},
	{"product manager", "Product"},
	{"product owner", "Product"},
	{"marketing", "Marketing"},
	{"growth", "Marketing"},
	{"content", "Marketing"},
	{"sales", "Sales"},
	{"account executive", "Sales"},
	{"business development", "Sales"},
	{"recruit", "HR"},
	{"people ops", "HR"},
	{"human resources", "HR"},
	{"finance", "Finance"},
	{"accountant", "Finance"},
	{"support", "Support"},
	{"customer success", "Support"},
	{"operations", "Operations"},
}

func deriveDepartment(title string) string {
	lower := strings.ToLower(title)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '-' || r == '(' || r == ')'
	})
	for _, dk := range departmentKeywords {
		// Short keywords match whole tokens only; "ui" must not fire on
		// "recruiter".
		if len(dk.keyword) <= 3 {
			for _, tok := range tokens {
				if tok == dk.keyword {
					return dk.department
				}
			}
			continue
		}
		if strings.Contains(lower, dk.keyword) {
			return dk.department
		}
	}
	return "Other"
}

// experienceRange estimates a years-of-experience band from seniority tokens
// in the title.
func experienceRange(title string) (min, max int) {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "intern"):
		return 0, 1
	case strings.Contains(lower, "junior"), strings.Contains(lower, "entry"),
		strings.Contains(lower, "graduate"):
		return 0, 2
	case strings.Contains(lower, "principal"), strings.Contains(lower, "staff"),
		strings.Contains(lower, "distinguished"):
		return 8, 15
	case strings.Contains(lower, "senior"), strings.Contains(lower, "sr."),
		strings.Contains(lower, "lead"):
		return 5, 10
	default:
		return 2, 5
	}
}

// countryMarkers maps location substrings to a country label.
var countryMarkers = []struct {
	marker  string
	country string
}{
	{"united states", "US"},
	{"usa", "US"},
	{", us", "US"},
	{"new york", "US"},
	{"san francisco", "US"},
	{"seattle", "US"},
	{"austin", "US"},
	{"united kingdom", "UK"},
	{"london", "UK"},
	{"india", "IN"},
	{"bangalore", "IN"},
	{"bengaluru", "IN"},
	{"hyderabad", "IN"},
	{"mumbai", "IN"},
	{"germany", "DE"},
	{"berlin", "DE"},
	{"france", "FR"},
	{"paris", "FR"},
	{"canada", "CA"},
	{"toronto", "CA"},
	{"australia", "AU"},
	{"netherlands", "NL"},
	{"amsterdam", "NL"},
	{"ireland", "IE"},
	{"dublin", "IE"},
	{"singapore", "SG"},
}

func deriveCountry(location string) string {
	lower := strings.ToLower(location)
	if lower == "" || strings.Contains(lower, "worldwide") || strings.Contains(lower, "anywhere") {
		return ""
	}
	for _, cm := range countryMarkers {
		if strings.Contains(lower, cm.marker) {
			return cm.country
		}
	}
	return ""
}

var currencyByCountry = map[string]string{
	"US": "USD",
	"UK": "GBP",
	"IN": "INR",
	"DE": "EUR",
	"FR": "EUR",
	"NL": "EUR",
	"IE": "EUR",
	"CA": "CAD",
	"AU": "AUD",
	"SG": "SGD",
}

func deriveCurrency(country string) string {
	if c, ok := currencyByCountry[country]; ok {
		return c
	}
	return "USD"
}
