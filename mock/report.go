package mock

import (
	"net/http"
	"strconv"
	"strings"
)

// Summary figures served by /reports/summary.
const (
	SummaryLatestMonth = "2026-09"
	SummaryOpenSum     = 1000.5
	SummaryPaidSum     = 2500.0
	SummaryConfirmed   = 700.0
)

func (s *Service) summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"chartData": map[string]any{
			"categories":        []string{"2026-07", "2026-08", SummaryLatestMonth},
			"incomingCountSum":  []int{12, 18, 9},
			"openCountSum":      []int{2, 1, 2},
			"confirmedCountSum": []int{1, 2, 2},
			"paidCountSum":      []int{3, 4, 3},
			"rejectedCountSum":  []int{1, 2, 1},
		},
		"summary": map[string]any{
			"2026-07":          map[string]any{"paidAmount": 0, "openAmount": 120, "confirmedAmount": 80},
			"2026-08":          map[string]any{"paidAmount": 200, "openAmount": 0, "confirmedAmount": 0},
			SummaryLatestMonth: map[string]any{"paidAmount": 300, "openAmount": 100, "confirmedAmount": 100},
		},
		"marketStats": map[string]any{
			"markets": []map[string]any{
				{"market": "ch", "clicks": 50, "payout": 100, "openAmount": 10, "confirmedAmount": 20, "rejectedCount": 1},
				{"market": "de", "clicks": 200, "payout": 40, "openAmount": 30, "confirmedAmount": 5, "rejectedCount": 2},
				{"market": "at", "clicks": 10, "payout": 500, "openAmount": 0, "confirmedAmount": 50, "rejectedCount": 1},
			},
			"statistics": map[string]any{
				"incomingCountSum":   39,
				"paidAmountSum":      SummaryPaidSum,
				"openAmountSum":      SummaryOpenSum,
				"confirmedAmountSum": SummaryConfirmed,
				"rejectedCountSum":   4,
				"paidCountSum":       10,
				"confirmedCountSum":  5,
				"openCountSum":       5,
			},
		},
	}})
}

func (s *Service) statistics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"markets": []string{"ch", "de", "at"},
		"rows": []map[string]any{
			{"month": query.Get("month"), "year": query.Get("year"), "market": "ch", "clicks": 50},
		},
	}})
}

func (s *Service) commissions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"commissions": []map[string]any{
			{"date": query.Get("date_from"), "market": query.Get("market"), "modified": query.Get("modified") == "true", "amount": 12.5},
		},
	}})
}

func (s *Service) merchants(w http.ResponseWriter, r *http.Request) {
	market := strings.ToLower(r.URL.Query().Get("market"))
	var merchants []map[string]any
	for i := 1; i <= 3; i++ {
		merchants = append(merchants, map[string]any{"id": i, "name": "Merchant " + strconv.Itoa(i), "market": market})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"merchants": merchants}})
}

// merchantStatus reports odd merchant ids as active.
func (s *Service) merchantStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"status": id%2 == 1}})
}

var countryList = []map[string]any{
	{"alpha2Code": "CH", "name": "Switzerland", "callingCodes": []string{"41"}, "independent": true, "translations": map[string]string{"de": "Schweiz"}},
	{"alpha2Code": "DE", "name": "Germany", "callingCodes": []string{"49"}, "independent": true, "translations": map[string]string{"de": "Deutschland"}},
	{"alpha2Code": "AT", "name": "Austria", "callingCodes": []string{"43"}, "independent": true, "translations": map[string]string{"de": "Österreich"}},
	{"alpha2Code": "FR", "name": "France", "callingCodes": []string{"33"}, "independent": true, "translations": map[string]string{"de": "Frankreich"}},
}

// countries serves the country list with names in the requested locale.
func (s *Service) countries(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	data := make([]map[string]any, 0, len(countryList))
	for _, country := range countryList {
		item := make(map[string]any, len(country))
		for k, v := range country {
			item[k] = v
		}
		if name, ok := country["translations"].(map[string]string)[locale]; ok {
			item["name"] = name
		}
		data = append(data, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}
