package dto

import (
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
)

// Rate view descriptions returned in response metadata.
const (
	webRatesDescription  = "All rates are based on KRW. JPY100 means 100 yen."
	chatRatesDescription = "Rate comparison with trend analysis for chatbot"
)

// GetRatesParams defines the query parameters of the rates endpoint.
// Range and format checks happen in the service so that every caller gets the same validation.
type GetRatesParams struct {
	Format string `form:"format"`
	Days   *int   `form:"days"`
}

// SyncStepResponse is one progress entry of a sync run.
type SyncStepResponse struct {
	Step   int    `json:"step"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SyncResponse is the structured step log returned by the sync endpoint.
type SyncResponse struct {
	Success     bool               `json:"success"`
	Steps       []SyncStepResponse `json:"steps"`
	Summary     string             `json:"summary,omitempty"`
	Error       string             `json:"error,omitempty"`
	FailedDates []string           `json:"failedDates,omitempty"`
	Planned     int                `json:"planned"`
	Inserted    int                `json:"inserted"`
	Updated     int                `json:"updated"`
	Skipped     int                `json:"skipped"`
}

// ToSyncResponse converts a domain.SyncRunResult to its response DTO.
func ToSyncResponse(result *domain.SyncRunResult) SyncResponse {
	steps := make([]SyncStepResponse, len(result.Steps))
	for i, s := range result.Steps {
		steps[i] = SyncStepResponse{
			Step:   s.Step,
			Name:   s.Name,
			Status: string(s.Status),
			Detail: s.Detail,
			Error:  s.Error,
		}
	}
	var failed []string
	if len(result.FailedDates) > 0 {
		failed = businessday.FormatAll(result.FailedDates)
	}
	return SyncResponse{
		Success:     result.Success,
		Steps:       steps,
		Summary:     result.Summary,
		Error:       result.Error,
		FailedDates: failed,
		Planned:     result.Planned,
		Inserted:    result.Inserted,
		Updated:     result.Updated,
		Skipped:     result.Skipped,
	}
}

// WebRateRowResponse is one date of the web listing.
type WebRateRowResponse struct {
	Date   string  `json:"date"`
	USD    float64 `json:"USD"`
	EUR    float64 `json:"EUR"`
	JPY100 float64 `json:"JPY100"`
	CNH    float64 `json:"CNH"`
}

// WebRatesMetadata describes a web listing.
type WebRatesMetadata struct {
	TotalDays           int      `json:"totalDays"`
	RequestedDays       int      `json:"requestedDays"`
	LatestDate          string   `json:"latestDate"`
	AvailableCurrencies []string `json:"availableCurrencies"`
	Format              string   `json:"format"`
	Description         string   `json:"description"`
}

// WebRatesResponse is the web format of the rates endpoint.
type WebRatesResponse struct {
	Success  bool                 `json:"success"`
	Data     []WebRateRowResponse `json:"data"`
	Metadata WebRatesMetadata     `json:"metadata"`
}

// ToWebRatesResponse converts a domain.WebRatesView to its response DTO.
func ToWebRatesResponse(view *domain.WebRatesView) WebRatesResponse {
	rows := make([]WebRateRowResponse, len(view.Rows))
	for i, r := range view.Rows {
		rows[i] = WebRateRowResponse{
			Date:   businessday.Format(r.Date),
			USD:    r.Rates[domain.CurrencyUSD].InexactFloat64(),
			EUR:    r.Rates[domain.CurrencyEUR].InexactFloat64(),
			JPY100: r.Rates[domain.CurrencyJPY100].InexactFloat64(),
			CNH:    r.Rates[domain.CurrencyCNH].InexactFloat64(),
		}
	}
	latest := ""
	if len(view.Rows) > 0 {
		latest = businessday.Format(view.LatestDate)
	}
	return WebRatesResponse{
		Success: true,
		Data:    rows,
		Metadata: WebRatesMetadata{
			TotalDays:           len(rows),
			RequestedDays:       view.RequestedDays,
			LatestDate:          latest,
			AvailableCurrencies: supportedCurrencyCodes(),
			Format:              domain.RateFormatWeb,
			Description:         webRatesDescription,
		},
	}
}

// ComparisonDates names the two dates a chat comparison is based on.
type ComparisonDates struct {
	Today     string `json:"today"`
	Yesterday string `json:"yesterday"`
}

// ChatRatesMetadata describes a chat comparison.
type ChatRatesMetadata struct {
	ComparisonDates ComparisonDates `json:"comparisonDates"`
	RequestedDays   int             `json:"requestedDays"`
	Format          string          `json:"format"`
	Description     string          `json:"description"`
}

// ChatRatesResponse is the chat format of the rates endpoint. Each data entry
// maps a currency code to its rate and "<code>_trend" to the percent change.
type ChatRatesResponse struct {
	Success  bool                 `json:"success"`
	Data     []map[string]float64 `json:"data"`
	Metadata ChatRatesMetadata    `json:"metadata"`
}

// ToChatRatesResponse converts a domain.ComparisonView to its response DTO.
func ToChatRatesResponse(view *domain.ComparisonView) ChatRatesResponse {
	entry := make(map[string]float64, 2*len(domain.SupportedCurrencies))
	for _, c := range domain.SupportedCurrencies {
		comparison := view.Currencies[c]
		entry[string(c)] = comparison.Rate.InexactFloat64()
		entry[string(c)+"_trend"] = comparison.Trend.InexactFloat64()
	}
	return ChatRatesResponse{
		Success: true,
		Data:    []map[string]float64{entry},
		Metadata: ChatRatesMetadata{
			ComparisonDates: ComparisonDates{
				Today:     businessday.Format(view.Today),
				Yesterday: businessday.Format(view.Yesterday),
			},
			RequestedDays: view.RequestedDays,
			Format:        domain.RateFormatChat,
			Description:   chatRatesDescription,
		},
	}
}

// RateDataInfo summarizes stored rates in the health response.
type RateDataInfo struct {
	LatestData   string `json:"latestData"`
	TotalRecords int    `json:"totalRecords"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status              string       `json:"status"`
	Storage             string       `json:"storage"`
	StorageBackend      string       `json:"storageBackend"`
	Error               string       `json:"error,omitempty"`
	DataInfo            RateDataInfo `json:"dataInfo"`
	SupportedCurrencies []string     `json:"supportedCurrencies"`
	Timestamp           string       `json:"timestamp"`
}

// ToHealthResponse converts a domain.RateHealth to its response DTO.
func ToHealthResponse(health *domain.RateHealth, backend, timestamp string) HealthResponse {
	resp := HealthResponse{
		Status:              "healthy",
		Storage:             "connected",
		StorageBackend:      backend,
		SupportedCurrencies: supportedCurrencyCodes(),
		Timestamp:           timestamp,
		DataInfo:            RateDataInfo{LatestData: "no data", TotalRecords: health.TotalRecords},
	}
	if !health.StorageReachable {
		resp.Status = "unhealthy"
		resp.Storage = "disconnected"
		resp.Error = health.StorageError
	}
	if health.LatestDate != nil {
		resp.DataInfo.LatestData = businessday.Format(*health.LatestDate)
	}
	return resp
}

func supportedCurrencyCodes() []string {
	codes := make([]string, len(domain.SupportedCurrencies))
	for i, c := range domain.SupportedCurrencies {
		codes[i] = string(c)
	}
	return codes
}
