package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/collection"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

const (
	// DateLayout formats report dates.
	DateLayout = "2006-01-02"
	// DefaultLocale is used for country names when none is given.
	DefaultLocale = "de"
	// StatusUnknown is the status of a merchant that was not loaded yet.
	StatusUnknown = "-"
)

var (
	// ErrInProgress is returned when the same report is already being loaded.
	ErrInProgress      = errors.New("request already in progress")
	ErrUnknownMerchant = errors.New("unknown merchant")
)

type ChartData struct {
	Categories        []string  `json:"categories"`
	IncomingCountSum  []float64 `json:"incomingCountSum"`
	OpenCountSum      []float64 `json:"openCountSum"`
	ConfirmedCountSum []float64 `json:"confirmedCountSum"`
	PaidCountSum      []float64 `json:"paidCountSum"`
	RejectedCountSum  []float64 `json:"rejectedCountSum"`
}

type MonthSummary struct {
	PaidAmount      float64 `json:"paidAmount"`
	OpenAmount      float64 `json:"openAmount"`
	ConfirmedAmount float64 `json:"confirmedAmount"`
}

type MarketNumbers struct {
	Market          string  `json:"market"`
	Clicks          float64 `json:"clicks"`
	Payout          float64 `json:"payout"`
	OpenAmount      float64 `json:"openAmount"`
	ConfirmedAmount float64 `json:"confirmedAmount"`
	RejectedCount   float64 `json:"rejectedCount"`
}

type MarketTotals struct {
	IncomingCountSum   float64 `json:"incomingCountSum"`
	PaidAmountSum      float64 `json:"paidAmountSum"`
	OpenAmountSum      float64 `json:"openAmountSum"`
	ConfirmedAmountSum float64 `json:"confirmedAmountSum"`
	RejectedCountSum   float64 `json:"rejectedCountSum"`
	PaidCountSum       float64 `json:"paidCountSum"`
	ConfirmedCountSum  float64 `json:"confirmedCountSum"`
	OpenCountSum       float64 `json:"openCountSum"`
}

type MarketStats struct {
	Markets    []MarketNumbers `json:"markets"`
	Statistics *MarketTotals   `json:"statistics"`
}

// Summary is the dashboard report.
type Summary struct {
	ChartData   ChartData               `json:"chartData"`
	Months      map[string]MonthSummary `json:"summary"`
	MarketStats *MarketStats            `json:"marketStats"`
}

// Statistics is the monthly statistics report; Markets lists alpha2 codes.
type Statistics struct {
	Markets []string         `json:"markets"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

// Commission is one row of the commissions report.
type Commission map[string]any

// CommissionQuery filters the commissions report; a zero DateFrom means yesterday.
type CommissionQuery struct {
	DateFrom     time.Time
	Market       string
	OnlyModified bool
}

type Merchant struct {
	ID     ID     `json:"id"`
	Name   string `json:"name,omitempty"`
	Market string `json:"market,omitempty"`
}

type MerchantStatus struct {
	Status  string
	Loading bool
	Loaded  bool
}

// Reporting holds the reports of the dashboard.
type Reporting struct {
	client *Client
	now    func() time.Time

	mu            sync.RWMutex
	summary       *Summary
	selectedMonth string
	statistics    *Statistics
	commissions   []Commission
	merchants     []Merchant
	countries     []Country

	merchantStatus *collection.SyncMap[ID, MerchantStatus]

	summaryLoading     atomic.Bool
	commissionsLoading atomic.Bool
	merchantsLoading   atomic.Bool
}

func NewReporting(c *Client) *Reporting {
	return &Reporting{client: c, now: time.Now, merchantStatus: collection.NewSyncMap[ID, MerchantStatus]()}
}

// FetchSummary loads the dashboard summary and selects its latest month.
func (r *Reporting) FetchSummary(ctx context.Context) (*Summary, error) {
	if !r.summaryLoading.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer r.summaryLoading.Store(false)

	single, err := send[Single[Summary]](ctx, r.client, &request{method: http.MethodGet, path: APIPrefix + "/reports/summary"})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch summary", zap.Error(err))
		return nil, err
	}
	summary := single.Value
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = &summary
	if categories := summary.ChartData.Categories; len(categories) > 0 {
		r.selectedMonth = categories[len(categories)-1]
	}
	return &summary, nil
}

// FetchStatistics loads the statistics of month (1-12, 0 for all) in year.
func (r *Reporting) FetchStatistics(ctx context.Context, month, year int) (*Statistics, error) {
	if !r.commissionsLoading.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer r.commissionsLoading.Store(false)

	query := url.Values{}
	if month > 0 {
		query.Set("month", strconv.Itoa(month))
	}
	if year == 0 {
		year = r.now().Year()
	}
	query.Set("year", strconv.Itoa(year))
	single, err := send[Single[Statistics]](ctx, r.client, &request{method: http.MethodGet, path: APIPrefix + "/reports/statistics", query: query})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch statistics", zap.Error(err))
		return nil, err
	}
	statistics := single.Value
	r.mu.Lock()
	r.statistics = &statistics
	r.mu.Unlock()
	return &statistics, nil
}

// FetchCommissions loads the commissions report.
func (r *Reporting) FetchCommissions(ctx context.Context, q CommissionQuery) ([]Commission, error) {
	if !r.commissionsLoading.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer r.commissionsLoading.Store(false)

	dateFrom := q.DateFrom
	if dateFrom.IsZero() {
		dateFrom = r.now().AddDate(0, 0, -1)
	}
	query := url.Values{}
	query.Set("date_from", dateFrom.Format(DateLayout))
	query.Set("market", strings.ToLower(q.Market))
	query.Set("modified", strconv.FormatBool(q.OnlyModified))
	single, err := send[Single[struct {
		Commissions []Commission `json:"commissions"`
	}]](ctx, r.client, &request{method: http.MethodGet, path: APIPrefix + "/reports/commissions", query: query})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch commissions", zap.Error(err))
		return nil, err
	}
	r.mu.Lock()
	r.commissions = single.Value.Commissions
	r.mu.Unlock()
	return single.Value.Commissions, nil
}

// FetchMerchants loads the merchants of market; their statuses start unknown.
func (r *Reporting) FetchMerchants(ctx context.Context, market string) ([]Merchant, error) {
	if !r.merchantsLoading.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer r.merchantsLoading.Store(false)

	query := url.Values{"market": {strings.ToLower(market)}}
	single, err := send[Single[struct {
		Merchants []Merchant `json:"merchants"`
	}]](ctx, r.client, &request{method: http.MethodGet, path: APIPrefix + "/merchants", query: query})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch merchants", zap.Error(err))
		return nil, err
	}
	merchants := single.Value.Merchants
	r.mu.Lock()
	r.merchants = merchants
	r.mu.Unlock()
	r.merchantStatus.Clear()
	for _, merchant := range merchants {
		r.merchantStatus.Put(merchant.ID, MerchantStatus{Status: StatusUnknown})
	}
	return merchants, nil
}

// FetchMerchantStatus loads the status of a listed merchant once; later
// calls and calls while loading return the known state.
func (r *Reporting) FetchMerchantStatus(ctx context.Context, id ID) (MerchantStatus, error) {
	current, listed, started := r.merchantStatus.PutIf(id, MerchantStatus{Status: StatusUnknown, Loading: true},
		func(status MerchantStatus) bool { return !status.Loaded && !status.Loading })
	if !listed {
		return MerchantStatus{}, fmt.Errorf("%w: %v", ErrUnknownMerchant, id)
	}
	if !started {
		return current, nil
	}

	query := url.Values{"id": {id.String()}}
	single, err := send[Single[struct {
		Status any `json:"status"`
	}]](ctx, r.client, &request{method: http.MethodGet, path: APIPrefix + "/merchants/status", query: query})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch merchant status", zap.String("id", id.String()), zap.Error(err))
		r.merchantStatus.Put(id, MerchantStatus{Status: StatusUnknown})
		return MerchantStatus{Status: StatusUnknown}, err
	}
	status := MerchantStatus{Status: "false", Loaded: true}
	if value := single.Value.Status; value != nil {
		status.Status = fmt.Sprint(value)
	}
	if _, listed := r.merchantStatus.Get(id); listed {
		r.merchantStatus.Put(id, status)
	}
	return status, nil
}

func (r *Reporting) MerchantStatus(id ID) (MerchantStatus, bool) {
	return r.merchantStatus.Get(id)
}

// FetchCountries loads the country list; it does not require a session.
func (r *Reporting) FetchCountries(ctx context.Context, locale string) ([]Country, error) {
	if len(locale) >= 2 {
		locale = locale[:2]
	} else {
		locale = DefaultLocale
	}
	query := url.Values{"locale": {locale}}
	envelope, err := send[Envelope[Country]](ctx, r.client, &request{method: http.MethodGet, path: APIPrefix + "/countries", query: query, public: true})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch countries", zap.Error(err))
		return nil, err
	}
	r.mu.Lock()
	r.countries = envelope.Data
	r.mu.Unlock()
	return envelope.Data, nil
}

func (r *Reporting) Summary() *Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

func (r *Reporting) Statistics() *Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statistics
}

func (r *Reporting) Commissions() []Commission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Commission(nil), r.commissions...)
}

func (r *Reporting) Merchants() []Merchant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Merchant(nil), r.merchants...)
}

func (r *Reporting) Countries() []Country {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Country(nil), r.countries...)
}

// Country finds a country by alpha2 code, case insensitive.
func (r *Reporting) Country(alpha2 string) (Country, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, country := range r.countries {
		if strings.EqualFold(country.Alpha2Code, alpha2) {
			return country, true
		}
	}
	return Country{}, false
}

func (r *Reporting) totals() *MarketTotals {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.summary == nil || r.summary.MarketStats == nil {
		return nil
	}
	return r.summary.MarketStats.Statistics
}

// TotalOpenSum reports false until a summary with market totals was loaded.
func (r *Reporting) TotalOpenSum() (float64, bool) {
	if totals := r.totals(); totals != nil {
		return totals.OpenAmountSum, true
	}
	return 0, false
}

func (r *Reporting) TotalPayoutSum() (float64, bool) {
	if totals := r.totals(); totals != nil {
		return totals.PaidAmountSum, true
	}
	return 0, false
}

func (r *Reporting) TotalConfirmedSum() (float64, bool) {
	if totals := r.totals(); totals != nil {
		return totals.ConfirmedAmountSum, true
	}
	return 0, false
}

// RejectionRate is rejected*100/(paid+open+confirmed), 0 without counts.
func (r *Reporting) RejectionRate() (float64, bool) {
	totals := r.totals()
	if totals == nil {
		return 0, false
	}
	total := totals.PaidCountSum + totals.OpenCountSum + totals.ConfirmedCountSum
	if total <= 0 {
		return 0, true
	}
	return totals.RejectedCountSum * 100 / total, true
}

// TopPayoutMarkets returns the markets by descending payout.
func (r *Reporting) TopPayoutMarkets() []MarketNumbers {
	return r.sortedMarkets(func(a, b MarketNumbers) bool { return a.Payout > b.Payout })
}

// TopClickMarkets returns the markets by descending clicks.
func (r *Reporting) TopClickMarkets() []MarketNumbers {
	return r.sortedMarkets(func(a, b MarketNumbers) bool { return a.Clicks > b.Clicks })
}

func (r *Reporting) sortedMarkets(less func(a, b MarketNumbers) bool) []MarketNumbers {
	r.mu.RLock()
	if r.summary == nil || r.summary.MarketStats == nil {
		r.mu.RUnlock()
		return nil
	}
	markets := append([]MarketNumbers(nil), r.summary.MarketStats.Markets...)
	r.mu.RUnlock()
	sort.SliceStable(markets, func(i, j int) bool { return less(markets[i], markets[j]) })
	return markets
}

// MarketCountries returns the known countries of the summary markets sorted by name.
func (r *Reporting) MarketCountries() []Country {
	markets := map[string]bool{}
	for _, market := range r.TopClickMarkets() {
		markets[strings.ToLower(market.Market)] = true
	}
	var ret []Country
	for _, country := range r.Countries() {
		if markets[strings.ToLower(country.Alpha2Code)] {
			country.Alpha2Code = strings.ToLower(country.Alpha2Code)
			ret = append(ret, country)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// Months returns the summary months, latest first.
func (r *Reporting) Months() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.summary == nil {
		return nil
	}
	months := append([]string(nil), r.summary.ChartData.Categories...)
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

func (r *Reporting) SelectedMonth() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selectedMonth
}

func (r *Reporting) SelectMonth(month string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectedMonth = month
}

// SelectedMonthSummary returns the amounts of the selected month.
func (r *Reporting) SelectedMonthSummary() (MonthSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.summary == nil || r.selectedMonth == "" {
		return MonthSummary{}, false
	}
	month, ok := r.summary.Months[r.selectedMonth]
	return month, ok
}

// PayoutShare is the rounded share of paid in paid+confirmed of the selected
// month, 0 when either amount is 0.
func (r *Reporting) PayoutShare() int {
	month, ok := r.SelectedMonthSummary()
	if !ok || month.PaidAmount == 0 || month.ConfirmedAmount == 0 {
		return 0
	}
	return int(math.Round(month.PaidAmount * 100 / (month.ConfirmedAmount + month.PaidAmount)))
}

// Loading reports whether any report is in flight.
func (r *Reporting) Loading() bool {
	return r.summaryLoading.Load() || r.commissionsLoading.Load() || r.merchantsLoading.Load()
}

func (r *Reporting) Reset() {
	r.mu.Lock()
	r.summary = nil
	r.selectedMonth = ""
	r.statistics = nil
	r.commissions = nil
	r.merchants = nil
	r.countries = nil
	r.mu.Unlock()
	r.merchantStatus.Clear()
}
