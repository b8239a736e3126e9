package types

// ExtractConfig holds settings for the extraction stage.
// Per prd001-extraction R5.1-R5.5.
type ExtractConfig struct {
	// DataDir is the base directory for a generated cohort (contains fhir/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// CancerType selects the biomarker profile to apply.
	CancerType CancerType `json:"cancer_type" yaml:"cancer_type"`

	// OutFile is the CSV destination. Empty selects
	// duraxell_dataset_<cancer_type>_structured.csv inside DataDir.
	OutFile string `json:"out_file,omitempty" yaml:"out_file,omitempty"`

	// DBPath is an optional SQLite dataset store. Empty disables the store.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`

	// ProfilesFile is an optional YAML profile overlay loaded on top of the
	// built-in profiles.
	ProfilesFile string `json:"profiles_file,omitempty" yaml:"profiles_file,omitempty"`

	// Workers is the number of bundles processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`
}

// VerifyConfig holds settings for the verification stage.
// Per prd002-verification R5.1-R5.3.
type VerifyConfig struct {
	// DataDir is the base directory for a generated cohort (contains fhir/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// CancerType selects the biomarker profile to verify against.
	CancerType CancerType `json:"cancer_type" yaml:"cancer_type"`

	// Threshold is the minimum per-biomarker coverage percentage required
	// for the cohort to pass (default 95).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// ProfilesFile is an optional YAML profile overlay loaded on top of the
	// built-in profiles.
	ProfilesFile string `json:"profiles_file,omitempty" yaml:"profiles_file,omitempty"`

	// ReportFile is an optional YAML destination for the coverage report.
	ReportFile string `json:"report_file,omitempty" yaml:"report_file,omitempty"`

	// Workers is the number of bundles processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`
}
