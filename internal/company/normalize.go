package company

import (
	"regexp"
	"strings"
)

// officeQualifierRegex matches a trailing dash-separated office code,
// e.g. "TCS - BLR" or "Acme Corp – HYD". Requires whitespace before the dash
// so hyphenated brand names are untouched.
var officeQualifierRegex = regexp.MustCompile(`\s+[-–—]\s*[a-z]{2,4}$`)

// officeCities are location qualifiers stripped when they trail a dash.
var officeCities = []string{
	"bangalore", "bengaluru", "hyderabad", "pune", "mumbai", "chennai",
	"delhi", "noida", "gurgaon", "gurugram", "kolkata", "london", "dublin",
	"singapore", "berlin", "amsterdam", "toronto", "austin", "seattle",
}

// genericPhrases are organizational phrases removed wherever they appear.
// Longest first, so a containing phrase wins over its substring.
var genericPhrases = []string{
	"global development center", "global delivery center",
	"development center", "development centre",
	"research and development", "r&d center", "r&d centre",
	"data services", "global services", "shared services", "business services",
	"innovation labs", "innovation lab",
}

// suffixNoise are corporate suffix words stripped only from the end of the
// name, repeatedly, so "Acme Technologies Pvt Ltd" reduces to "acme". They
// double as the per-token noise list after tokenization.
var suffixNoise = []string{
	"private limited", "pvt. ltd.", "pvt ltd", "pvt. ltd", "pvt", "ltd.", "ltd",
	"limited", "incorporated", "inc.", "inc", "llc", "llp", "plc",
	"corporation", "corp.", "corp", "co.", "co", "company",
	"technologies", "technology", "tech", "solutions", "software", "systems",
	"services", "consultancy", "consulting", "labs", "group", "holdings",
	"india", "usa", "uk", "ireland", "germany", "france", "canada", "australia",
}

// suffixNoiseTokens is the single-word subset used for token dropping.
var suffixNoiseTokens = buildNoiseTokens()

func buildNoiseTokens() map[string]struct{} {
	set := make(map[string]struct{}, len(suffixNoise))
	for _, s := range suffixNoise {
		if !strings.ContainsAny(s, " .") {
			set[s] = struct{}{}
		}
	}
	return set
}

// brandDigitRunRegex: a digit run glued directly to letters ("360bet", "3m").
var brandDigitRunRegex = regexp.MustCompile(`^\d+[A-Za-z]`)

// brandShortNumberRegex: one or two digits before a word ("7 Eleven",
// "21 Jump"). Case-insensitive so already-normalized names keep their
// digits on re-entry; long digit runs ("2100 Microsoft") stay noise.
var brandShortNumberRegex = regexp.MustCompile(`^\d{1,2}\s+\p{L}`)

var numericPrefixRegex = regexp.MustCompile(`^\d+\s+`)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Normalize reduces a raw company name to a comparable canonical token
// sequence. It is idempotent: Normalize(Normalize(x)) == Normalize(x).
//
// Leading digits are kept only when one of the brand patterns below says
// they belong to the name ("360bet", "7 Eleven"); otherwise they are
// treated as upstream listing noise and dropped.
func Normalize(raw string) string {
	original := strings.TrimSpace(raw)
	name := strings.ToLower(original)

	name = stripOfficeQualifier(name)
	name = stripGenericPhrases(name)
	name = stripCorporateSuffixes(name)
	name = punctuationRegex.ReplaceAllString(name, " ")

	if !brandDigitRunRegex.MatchString(original) && !brandShortNumberRegex.MatchString(original) {
		name = numericPrefixRegex.ReplaceAllString(strings.TrimSpace(name), "")
	}

	tokens := strings.Fields(name)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tokens) > 1 && len(tok) < 2 {
			continue
		}
		if _, noise := suffixNoiseTokens[tok]; noise {
			continue
		}
		kept = append(kept, tok)
	}

	result := strings.Join(kept, " ")
	if len(result) < 2 {
		// Everything was noise; fall back to a minimally-cleaned original
		// rather than failing.
		fallback := punctuationRegex.ReplaceAllString(strings.ToLower(original), " ")
		return strings.Join(strings.Fields(fallback), " ")
	}
	return result
}

func stripOfficeQualifier(name string) string {
	name = officeQualifierRegex.ReplaceAllString(name, "")
	for _, city := range officeCities {
		for _, dash := range []string{" - ", " – ", " — "} {
			if strings.HasSuffix(name, dash+city) {
				name = strings.TrimSpace(strings.TrimSuffix(name, dash+city))
			}
		}
	}
	return strings.TrimSpace(name)
}

func stripGenericPhrases(name string) string {
	for _, phrase := range genericPhrases {
		name = strings.ReplaceAll(name, phrase, " ")
	}
	return strings.Join(strings.Fields(name), " ")
}

// stripCorporateSuffixes removes suffix noise words only from the end of the
// string, looping until stable, so multi-word phrases like "pvt ltd" fall
// off one layer at a time.
func stripCorporateSuffixes(name string) string {
	for {
		stripped := false
		name = strings.TrimRight(strings.TrimSpace(name), " ,.-")
		for _, suffix := range suffixNoise {
			if name == suffix {
				return ""
			}
			if strings.HasSuffix(name, " "+suffix) {
				name = strings.TrimSpace(strings.TrimSuffix(name, " "+suffix))
				stripped = true
				break
			}
		}
		if !stripped {
			return name
		}
	}
}
