package store

import "time"

// MeasurementSchemaVersion identifies the column naming contract of Measurement.
// Bump it whenever a field is renamed or reinterpreted.
const MeasurementSchemaVersion = 1

// Measurement is one aggregated test batch row from military_effectiveness_evaluation.
// Every metric is optional; nil means the batch did not record it.
type Measurement struct {
	EvaluationID int64  `json:"evaluation_id" yaml:"evaluation_id"`
	ScenarioID   int    `json:"scenario_id" yaml:"scenario_id"`
	TestID       string `json:"test_id" yaml:"test_id"`

	// Response
	AvgCallSetupDurationMs *float64 `json:"avg_call_setup_duration_ms,omitempty" yaml:"avg_call_setup_duration_ms,omitempty"`
	AvgTransmissionDelayMs *float64 `json:"avg_transmission_delay_ms,omitempty" yaml:"avg_transmission_delay_ms,omitempty"`

	// Processing
	EffectiveThroughput      *float64 `json:"effective_throughput,omitempty" yaml:"effective_throughput,omitempty"`
	SpectralEfficiency       *float64 `json:"spectral_efficiency,omitempty" yaml:"spectral_efficiency,omitempty"`
	ChannelUtilization       *float64 `json:"channel_utilization,omitempty" yaml:"channel_utilization,omitempty"`
	AvgConcurrentLinks       *float64 `json:"avg_concurrent_links,omitempty" yaml:"avg_concurrent_links,omitempty"`
	AvgCommunicationDistance *float64 `json:"avg_communication_distance,omitempty" yaml:"avg_communication_distance,omitempty"`

	// Effectiveness
	AvgBER *float64 `json:"avg_ber,omitempty" yaml:"avg_ber,omitempty"`
	AvgPLR *float64 `json:"avg_plr,omitempty" yaml:"avg_plr,omitempty"`

	// Reliability
	TaskSuccessRate               *float64 `json:"task_success_rate,omitempty" yaml:"task_success_rate,omitempty"`
	CommunicationAvailabilityRate *float64 `json:"communication_availability_rate,omitempty" yaml:"communication_availability_rate,omitempty"`
	TotalNetworkCrashes           *int     `json:"total_network_crashes,omitempty" yaml:"total_network_crashes,omitempty"`
	AvgResponseTimeMs             *int64   `json:"avg_response_time_ms,omitempty" yaml:"avg_response_time_ms,omitempty"`
	AvgHandlingDurationMs         *int64   `json:"avg_handling_duration_ms,omitempty" yaml:"avg_handling_duration_ms,omitempty"`

	// Anti-jamming
	AvgSNR           *float64 `json:"avg_snr,omitempty" yaml:"avg_snr,omitempty"`
	AvgSINR          *float64 `json:"avg_sinr,omitempty" yaml:"avg_sinr,omitempty"`
	AvgJammingMargin *float64 `json:"avg_jamming_margin,omitempty" yaml:"avg_jamming_margin,omitempty"`

	// Human operation
	AvgOperatorReactionTimeMs *float64 `json:"avg_operator_reaction_time_ms,omitempty" yaml:"avg_operator_reaction_time_ms,omitempty"`
	OperationSuccessRate      *float64 `json:"operation_success_rate,omitempty" yaml:"operation_success_rate,omitempty"`

	// Networking
	AvgNetworkSetupDurationMs   *int64   `json:"avg_network_setup_duration_ms,omitempty" yaml:"avg_network_setup_duration_ms,omitempty"`
	AvgNetworkSetupSpeed        *float64 `json:"avg_network_setup_speed,omitempty" yaml:"avg_network_setup_speed,omitempty"`
	AvgConnectivityRate         *float64 `json:"avg_connectivity_rate,omitempty" yaml:"avg_connectivity_rate,omitempty"`
	DeploymentSpeed             *float64 `json:"deployment_speed,omitempty" yaml:"deployment_speed,omitempty"`
	PersonnelAvgDeploymentSpeed *float64 `json:"personnel_avg_deployment_speed,omitempty" yaml:"personnel_avg_deployment_speed,omitempty"`

	// Security
	AvgKeyAgeHours           *float64 `json:"avg_key_age_hours,omitempty" yaml:"avg_key_age_hours,omitempty"`
	KeyCompromiseFrequency   *float64 `json:"key_compromise_frequency,omitempty" yaml:"key_compromise_frequency,omitempty"`
	AvgKeyLeakResponseTimeMs *float64 `json:"avg_key_leak_response_time_ms,omitempty" yaml:"avg_key_leak_response_time_ms,omitempty"`
	KeySecurityIndex         *float64 `json:"key_security_index,omitempty" yaml:"key_security_index,omitempty"`
	KeyResponseEfficiency    *float64 `json:"key_response_efficiency,omitempty" yaml:"key_response_efficiency,omitempty"`
	DetectionProbability     *float64 `json:"detection_probability,omitempty" yaml:"detection_probability,omitempty"`
	InterceptionResistance   *float64 `json:"interception_resistance,omitempty" yaml:"interception_resistance,omitempty"`

	// Volume
	TotalCommunications          *int   `json:"total_communications,omitempty" yaml:"total_communications,omitempty"`
	TotalLifecycles              *int   `json:"total_lifecycles,omitempty" yaml:"total_lifecycles,omitempty"`
	TotalCommunicationDurationMs *int64 `json:"total_communication_duration_ms,omitempty" yaml:"total_communication_duration_ms,omitempty"`
	TotalInterruptionTimeMs      *int64 `json:"total_interruption_time_ms,omitempty" yaml:"total_interruption_time_ms,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// MeasurementFilter narrows a measurement listing. Zero values mean no constraint.
type MeasurementFilter struct {
	ScenarioID *int
	// SuccessRateBelow keeps rows whose task_success_rate is strictly below the threshold.
	SuccessRateBelow *float64
	CrashesOnly      bool
	Limit            int
	Offset           int
}
