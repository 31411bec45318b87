package domain

// SignalType is one of the six signal categories the detector scans for.
type SignalType string

const (
	SignalWinLossPattern    SignalType = "win_loss_pattern"
	SignalConversionDropOff SignalType = "conversion_drop_off"
	SignalVelocityAnomaly   SignalType = "velocity_anomaly"
	SignalSPICEDFrequency   SignalType = "spiced_frequency"
	SignalAttributionShift  SignalType = "attribution_shift"
	SignalDataQuality       SignalType = "data_quality"
)

// SignalInfo describes a signal type and the actions it usually triggers.
type SignalInfo struct {
	Label              string   `json:"label"`
	Description        string   `json:"description"`
	RecommendedActions []string `json:"recommended_actions"`
}

// Signal is one evidence-backed finding. Strength runs 0..1.
type Signal struct {
	Type              SignalType     `json:"signal_type"`
	TypeLabel         string         `json:"signal_label"`
	Name              string         `json:"signal_name"`
	Strength          float64        `json:"signal_strength"`
	Evidence          map[string]any `json:"evidence"`
	RecommendedAction string         `json:"recommended_action"`
}

// SignalSummary aggregates a scan's findings.
type SignalSummary struct {
	TotalSignals  int                `json:"total_signals"`
	TypesDetected []SignalType       `json:"signal_types_detected"`
	TypeCounts    map[SignalType]int `json:"signal_type_counts"`
	Strongest     *Signal            `json:"highest_strength_signal,omitempty"`
	Critical      []Signal           `json:"critical_signals"`
}

// SignalReport is the full outcome of one signal scan.
type SignalReport struct {
	RunID        string                    `json:"run_id"`
	Signals      []Signal                  `json:"signals"`
	Summary      SignalSummary             `json:"summary"`
	Taxonomy     map[SignalType]SignalInfo `json:"signal_taxonomy"`
	ScanDate     string                    `json:"scan_date"`
	DealsScanned int                       `json:"deals_scanned"`
}
