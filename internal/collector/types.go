package collector

import "encoding/json"

// Record is a validated ingest payload with every default applied.
type Record struct {
	FlowName     string
	Status       string
	Region       string
	Symbol       string
	LatencyMS    float64
	RecordsTotal int64
	Errors       int64
	ErrorType    string
	Endpoint     string
}

// ingestPayload is the wire shape of an ingest request. Pointer fields
// distinguish absent from zero; unknown fields are ignored.
type ingestPayload struct {
	FlowName     *string  `json:"flow_name"`
	Status       *string  `json:"status"`
	Region       *string  `json:"region"`
	Symbol       *string  `json:"symbol"`
	LatencyMS    *float64 `json:"latency_ms"`
	RecordsTotal *int64   `json:"records_total"`
	Errors       *int64   `json:"errors"`
	ErrorType    *string  `json:"error_type"`
	Endpoint     *string  `json:"endpoint"`
}

// parseRecord decodes an ingest body into a Record, applying the
// per-field defaults for anything absent.
func parseRecord(body []byte) (Record, error) {
	var p ingestPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Record{}, err
	}

	rec := Record{
		FlowName:  "unknown",
		Status:    "unknown",
		Region:    "NA",
		Symbol:    "unknown",
		ErrorType: "none",
		Endpoint:  "/ingest",
	}
	if p.FlowName != nil {
		rec.FlowName = *p.FlowName
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.Region != nil {
		rec.Region = *p.Region
	}
	if p.Symbol != nil {
		rec.Symbol = *p.Symbol
	}
	if p.LatencyMS != nil {
		rec.LatencyMS = *p.LatencyMS
	}
	if p.RecordsTotal != nil {
		rec.RecordsTotal = *p.RecordsTotal
	}
	if p.Errors != nil {
		rec.Errors = *p.Errors
	}
	if p.ErrorType != nil {
		rec.ErrorType = *p.ErrorType
	}
	if p.Endpoint != nil {
		rec.Endpoint = *p.Endpoint
	}

	return rec, nil
}
