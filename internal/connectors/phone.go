package connectors

import (
	"context"
	"fmt"
)

// PhoneAnalysis is the normalized result of a phone number lookup.
type PhoneAnalysis struct {
	Service     string `json:"service"`
	PhoneNumber string `json:"phone_number"`
	Formatted   string `json:"formatted"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Location    string `json:"location"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
	Valid       bool   `json:"valid"`
	Possible    bool   `json:"possible"`
}

type phoneAdapter struct {
	base
}

func newPhoneAnalysisAdapter(deps Deps) Adapter {
	return &phoneAdapter{base: newBase("phone_analysis", deps)}
}

func (a *phoneAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if !validPhone(query) {
		return nil, newError(ErrValidation, "invalid phone number format: %s", query)
	}
	resp, err := a.get(ctx, a.settings.AnalyzeEndpoint, map[string]string{"phone": query})
	if err != nil {
		return nil, err
	}
	return a.ProcessData(resp.Body), nil
}

func (a *phoneAdapter) ProcessData(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("phone_analysis", raw, "unrecognized payload shape")
	}
	analysis := PhoneAnalysis{
		Service:     a.service,
		PhoneNumber: str(m, "phone_number"),
		Formatted:   str(m, "formatted"),
		CountryCode: str(m, "country_code"),
		CountryName: str(m, "country_name"),
		Location:    str(m, "location"),
		Carrier:     str(m, "carrier"),
		LineType:    str(m, "line_type"),
		Valid:       boolean(m, "valid"),
		Possible:    boolean(m, "possible"),
	}
	return &Result{Service: a.service, Kind: "phone_analysis", Data: analysis, Raw: raw}
}

func (a *phoneAdapter) TestConnection(ctx context.Context) (bool, string) {
	// Reserved fictional US number.
	_, err := a.Search(ctx, "+12025550198", SearchOptions{})
	if err != nil {
		return false, fmt.Sprintf("phone analysis service connection failed: %v", err)
	}
	return true, "phone analysis service connection successful"
}
