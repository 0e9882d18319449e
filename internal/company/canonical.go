package company

import "strings"

// CanonicalEntry is static reference data for a well-known employer: the
// preferred display name, known alternate spellings, and an industry
// classification. Immutable at runtime.
type CanonicalEntry struct {
	Name     string
	Aliases  []string
	Industry string
	Rank     int
}

// canonicalTable is the curated well-known-employer list. Aliases are matched
// case-insensitively against the raw scraped name before any normalization.
var canonicalTable = []CanonicalEntry{
	{Name: "Google", Industry: "Technology", Rank: 1, Aliases: []string{"google llc", "google inc", "google inc.", "alphabet", "alphabet inc", "google india", "google ireland"}},
	{Name: "Microsoft", Industry: "Technology", Rank: 2, Aliases: []string{"microsoft corp", "microsoft corporation", "msft", "msft corp", "microsoft india", "microsoft ireland"}},
	{Name: "Amazon", Industry: "E-commerce", Rank: 3, Aliases: []string{"amazon.com", "amazon.com inc", "amazon.com, inc.", "amazon web services", "aws", "amazon india", "amazon development centre india"}},
	{Name: "Apple", Industry: "Technology", Rank: 4, Aliases: []string{"apple inc", "apple inc.", "apple computer"}},
	{Name: "Meta", Industry: "Technology", Rank: 5, Aliases: []string{"meta platforms", "meta platforms inc", "facebook", "facebook inc", "instagram", "whatsapp"}},
	{Name: "Netflix", Industry: "Media", Rank: 6, Aliases: []string{"netflix inc", "netflix, inc."}},
	{Name: "IBM", Industry: "Technology", Rank: 7, Aliases: []string{"ibm corp", "ibm corporation", "international business machines", "ibm india"}},
	{Name: "Oracle", Industry: "Technology", Rank: 8, Aliases: []string{"oracle corp", "oracle corporation", "oracle india"}},
	{Name: "SAP", Industry: "Technology", Rank: 9, Aliases: []string{"sap se", "sap labs", "sap labs india"}},
	{Name: "Salesforce", Industry: "Technology", Rank: 10, Aliases: []string{"salesforce.com", "salesforce inc", "salesforce, inc."}},
	{Name: "Adobe", Industry: "Technology", Rank: 11, Aliases: []string{"adobe inc", "adobe systems", "adobe systems incorporated"}},
	{Name: "Intel", Industry: "Technology", Rank: 12, Aliases: []string{"intel corp", "intel corporation"}},
	{Name: "NVIDIA", Industry: "Technology", Rank: 13, Aliases: []string{"nvidia corp", "nvidia corporation"}},
	{Name: "Cisco", Industry: "Technology", Rank: 14, Aliases: []string{"cisco systems", "cisco systems inc", "cisco systems, inc."}},
	{Name: "Uber", Industry: "Technology", Rank: 15, Aliases: []string{"uber technologies", "uber technologies inc", "uber india"}},
	{Name: "Airbnb", Industry: "Technology", Rank: 16, Aliases: []string{"airbnb inc", "airbnb, inc."}},
	{Name: "Stripe", Industry: "Finance", Rank: 17, Aliases: []string{"stripe inc", "stripe, inc."}},
	{Name: "Shopify", Industry: "E-commerce", Rank: 18, Aliases: []string{"shopify inc", "shopify inc."}},
	{Name: "Spotify", Industry: "Media", Rank: 19, Aliases: []string{"spotify ab", "spotify technology", "spotify usa"}},
	{Name: "Atlassian", Industry: "Technology", Rank: 20, Aliases: []string{"atlassian corp", "atlassian corporation", "atlassian pty"}},
	{Name: "LinkedIn", Industry: "Technology", Rank: 21, Aliases: []string{"linkedin corp", "linkedin corporation"}},
	{Name: "PayPal", Industry: "Finance", Rank: 22, Aliases: []string{"paypal inc", "paypal holdings", "paypal india"}},
	{Name: "Walmart", Industry: "Retail", Rank: 23, Aliases: []string{"walmart inc", "walmart labs", "walmart global tech"}},
	{Name: "Infosys", Industry: "IT Services", Rank: 24, Aliases: []string{"infosys ltd", "infosys limited", "infosys technologies"}},
	{Name: "Tata Consultancy Services", Industry: "IT Services", Rank: 25, Aliases: []string{"tcs", "tata consultancy", "tata consultancy services limited"}},
	{Name: "Wipro", Industry: "IT Services", Rank: 26, Aliases: []string{"wipro ltd", "wipro limited", "wipro technologies"}},
	{Name: "HCLTech", Industry: "IT Services", Rank: 27, Aliases: []string{"hcl", "hcl technologies", "hcl technologies limited"}},
	{Name: "Accenture", Industry: "Consulting", Rank: 28, Aliases: []string{"accenture plc", "accenture solutions", "accenture india"}},
	{Name: "Deloitte", Industry: "Consulting", Rank: 29, Aliases: []string{"deloitte llp", "deloitte consulting", "deloitte touche tohmatsu"}},
	{Name: "Capgemini", Industry: "Consulting", Rank: 30, Aliases: []string{"capgemini se", "capgemini india", "capgemini america"}},
	{Name: "Cognizant", Industry: "IT Services", Rank: 31, Aliases: []string{"cognizant technology solutions", "cts"}},
	{Name: "Tech Mahindra", Industry: "IT Services", Rank: 32, Aliases: []string{"tech mahindra limited", "tech mahindra ltd"}},
	{Name: "Goldman Sachs", Industry: "Finance", Rank: 33, Aliases: []string{"goldman sachs group", "goldman sachs & co", "gs"}},
	{Name: "JPMorgan Chase", Industry: "Finance", Rank: 34, Aliases: []string{"jpmorgan", "jp morgan", "jpmorgan chase & co", "chase"}},
	{Name: "Morgan Stanley", Industry: "Finance", Rank: 35, Aliases: []string{"morgan stanley & co"}},
	{Name: "Flipkart", Industry: "E-commerce", Rank: 36, Aliases: []string{"flipkart internet", "flipkart internet private limited"}},
	{Name: "Zomato", Industry: "E-commerce", Rank: 37, Aliases: []string{"zomato ltd", "zomato limited", "eternal"}},
	{Name: "Swiggy", Industry: "E-commerce", Rank: 38, Aliases: []string{"swiggy (bundl technologies)", "bundl technologies"}},
	{Name: "Paytm", Industry: "Finance", Rank: 39, Aliases: []string{"one97 communications", "paytm (one97)"}},
	{Name: "GitLab", Industry: "Technology", Rank: 40, Aliases: []string{"gitlab inc", "gitlab b.v."}},
}

// canonicalIndex maps lowercased names and aliases to table entries.
var canonicalIndex = buildCanonicalIndex()

func buildCanonicalIndex() map[string]*CanonicalEntry {
	idx := make(map[string]*CanonicalEntry, len(canonicalTable)*4)
	for i := range canonicalTable {
		entry := &canonicalTable[i]
		idx[strings.ToLower(entry.Name)] = entry
		for _, alias := range entry.Aliases {
			idx[strings.ToLower(alias)] = entry
		}
	}
	return idx
}

// LookupCanonical returns the curated entry for raw, matching the display
// name or any alias case-insensitively.
func LookupCanonical(raw string) (CanonicalEntry, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if entry, ok := canonicalIndex[key]; ok {
		return *entry, true
	}
	return CanonicalEntry{}, false
}
