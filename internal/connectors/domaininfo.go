package connectors

import (
	"context"
	"fmt"
	"time"
)

// domainAdapter implements the single-lookup flow shared by the domain
// information services. The query is always a bare domain name.
type domainAdapter struct {
	base
	endpoint func(domain string, opts SearchOptions) string
	process  func(raw any) any
}

func (a *domainAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if !validDomain(query) {
		return nil, newError(ErrValidation, "invalid domain format: %s", query)
	}
	resp, err := a.get(ctx, a.endpoint(query, opts), nil)
	if err != nil {
		return nil, err
	}
	return &Result{Service: a.service, Kind: "domain_info", Data: a.process(resp.Body), Raw: resp.Body}, nil
}

func (a *domainAdapter) ProcessData(raw any) *Result {
	if asMap(raw) == nil {
		return a.degraded("domain_info", raw, "unrecognized payload shape")
	}
	return &Result{Service: a.service, Kind: "domain_info", Data: a.process(raw), Raw: raw}
}

// TestConnection looks up a well-known domain since these services have no
// parameterless probe.
func (a *domainAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "example.com", SearchOptions{})
	if err != nil {
		return false, fmt.Sprintf("%s service connection failed: %v", a.service, err)
	}
	return true, fmt.Sprintf("%s service connection successful", a.service)
}

// Whois

type WhoisRegistrant struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
}

type WhoisInfo struct {
	Service       string           `json:"service"`
	Domain        string           `json:"domain"`
	Registrar     string           `json:"registrar"`
	RegisteredOn  string           `json:"registered_on"`
	ExpiresOn     string           `json:"expires_on"`
	UpdatedOn     string           `json:"updated_on"`
	Status        []string         `json:"status"`
	NameServers   []string         `json:"name_servers"`
	Registrant    *WhoisRegistrant `json:"registrant,omitempty"`
	DomainAgeDays *int             `json:"domain_age_days"` // nil when the creation date does not parse
}

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// domainAgeDays computes whole days since the registration date, or nil
// when the date is absent or unparseable.
func domainAgeDays(registeredOn string, now time.Time) *int {
	if registeredOn == "" {
		return nil
	}
	for _, layout := range whoisDateLayouts {
		registered, err := time.Parse(layout, registeredOn)
		if err != nil {
			continue
		}
		days := int(now.Sub(registered).Hours() / 24)
		return &days
	}
	return nil
}

func newWhoisAdapter(deps Deps) Adapter {
	a := &domainAdapter{base: newBase("whois", deps)}
	a.endpoint = func(domain string, _ SearchOptions) string {
		return fillTemplate(a.settings.DomainEndpoint, map[string]string{"domain": domain})
	}
	a.process = func(raw any) any {
		m := asMap(raw)
		info := WhoisInfo{
			Service:      a.service,
			Domain:       str(m, "domain"),
			Registrar:    str(subMap(m, "registrar"), "name"),
			RegisteredOn: str(m, "created_date"),
			ExpiresOn:    str(m, "expiration_date"),
			UpdatedOn:    str(m, "updated_date"),
			Status:       strList(m, "status"),
			NameServers:  strList(m, "name_servers"),
		}
		if registrant := subMap(m, "registrant"); registrant != nil {
			info.Registrant = &WhoisRegistrant{
				Name:         str(registrant, "name"),
				Organization: str(registrant, "organization"),
				Email:        str(registrant, "email"),
				Phone:        str(registrant, "phone"),
				Country:      str(registrant, "country"),
				State:        str(registrant, "state"),
				City:         str(registrant, "city"),
			}
		}
		info.DomainAgeDays = domainAgeDays(info.RegisteredOn, time.Now())
		return info
	}
	return a
}

// DNS

type DNSRecord struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Value    string `json:"value"`
	TTL      int    `json:"ttl,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

type DNSInfo struct {
	Service     string                 `json:"service"`
	Domain      string                 `json:"domain"`
	Records     map[string][]DNSRecord `json:"records"`
	IPAddresses []string               `json:"ip_addresses"`
	MailServers []string               `json:"mail_servers"`
	NameServers []string               `json:"name_servers"`
}

var dnsRecordTypes = []string{"A", "AAAA", "MX", "NS", "TXT", "CNAME", "SOA"}

func newDNSAdapter(deps Deps) Adapter {
	a := &domainAdapter{base: newBase("dns", deps)}
	a.endpoint = func(domain string, opts SearchOptions) string {
		recordType := opts.RecordType
		if recordType == "" {
			recordType = "ANY"
		}
		return fillTemplate(a.settings.DNSEndpoint, map[string]string{
			"domain":      domain,
			"record_type": recordType,
		})
	}
	a.process = func(raw any) any {
		m := asMap(raw)
		info := DNSInfo{
			Service:     a.service,
			Domain:      str(m, "domain"),
			Records:     map[string][]DNSRecord{},
			IPAddresses: []string{},
			MailServers: []string{},
			NameServers: []string{},
		}
		for _, t := range dnsRecordTypes {
			info.Records[t] = []DNSRecord{}
		}
		for _, item := range subSlice(m, "records") {
			rec := asMap(item)
			if rec == nil {
				continue
			}
			recordType := str(rec, "type")
			if _, tracked := info.Records[recordType]; !tracked {
				continue
			}
			info.Records[recordType] = append(info.Records[recordType], DNSRecord{
				Type:     recordType,
				Name:     str(rec, "name"),
				Value:    str(rec, "value"),
				TTL:      integer(rec, "ttl"),
				Priority: integer(rec, "priority"),
			})
		}
		for _, rec := range info.Records["A"] {
			info.IPAddresses = append(info.IPAddresses, rec.Value)
		}
		for _, rec := range info.Records["MX"] {
			info.MailServers = append(info.MailServers, rec.Value)
		}
		for _, rec := range info.Records["NS"] {
			info.NameServers = append(info.NameServers, rec.Value)
		}
		return info
	}
	return a
}

// SSL certificate lookup

type SSLCertificate struct {
	Service            string   `json:"service"`
	Domain             string   `json:"domain"`
	Issuer             string   `json:"issuer"`
	Subject            string   `json:"subject"`
	ValidFrom          string   `json:"valid_from"`
	ValidTo            string   `json:"valid_to"`
	DaysUntilExpiry    *int     `json:"days_until_expiry"` // nil when valid_to does not parse
	Expired            bool     `json:"is_expired"`
	SerialNumber       string   `json:"serial_number"`
	SignatureAlgorithm string   `json:"signature_algorithm"`
	AltNames           []string `json:"alt_names"`
	ChainLength        int      `json:"chain_length"`
}

func newSSLAdapter(deps Deps) Adapter {
	a := &domainAdapter{base: newBase("ssl", deps)}
	a.endpoint = func(domain string, _ SearchOptions) string {
		return fillTemplate(a.settings.CertEndpoint, map[string]string{"domain": domain})
	}
	a.process = func(raw any) any {
		m := asMap(raw)
		cert := SSLCertificate{
			Service:            a.service,
			Domain:             str(m, "domain"),
			Issuer:             str(subMap(m, "issuer"), "common_name"),
			Subject:            str(subMap(m, "subject"), "common_name"),
			ValidFrom:          str(m, "valid_from"),
			ValidTo:            str(m, "valid_to"),
			SerialNumber:       str(m, "serial_number"),
			SignatureAlgorithm: str(m, "signature_algorithm"),
			AltNames:           strList(m, "alt_names"),
			ChainLength:        len(subSlice(m, "chain")),
		}
		if cert.ValidTo != "" {
			for _, layout := range whoisDateLayouts {
				validTo, err := time.Parse(layout, cert.ValidTo)
				if err != nil {
					continue
				}
				days := int(time.Until(validTo).Hours() / 24)
				cert.DaysUntilExpiry = &days
				cert.Expired = validTo.Before(time.Now())
				break
			}
		}
		return cert
	}
	return a
}
