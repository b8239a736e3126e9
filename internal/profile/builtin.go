// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import "github.com/duraxell/biomarker-engine/pkg/types"

// receptorStatus is the hormone receptor categorizer shared by ER and PR:
// strictly above 10 percent is Positive, everything else (zero included)
// is Negative.
func receptorStatus() *Categorizer {
	return &Categorizer{Kind: KindThreshold, Cutoff: 10, Positive: "Positive", Negative: "Negative"}
}

// breastProfile returns the built-in breast cancer profile.
// Per prd003-profiles R1.6; rule data mirrors docs/DATASET § Breast.
func breastProfile() *Profile {
	return &Profile{
		CancerType: types.CancerBreast,
		Diagnosis: Diagnosis{
			SiteKeywords:    []string{"breast"},
			DateColumn:      "diagnosis_date",
			HistologyColumn: "histology",
			Histologies: []LabelRule{
				{Match: "ductal", Value: "Invasive Ductal Carcinoma"},
				{Match: "lobular", Value: "Invasive Lobular Carcinoma"},
				{Match: "triple negative", Value: "Triple Negative Breast Cancer"},
			},
		},
		Captures: []Capture{
			{
				Biomarker: Biomarker{Name: "TNM_T", Codes: []string{"21905-5"}, Keywords: []string{"primary tumor"}},
				Column:    ColTNMT,
			},
			{
				Biomarker: Biomarker{Name: "TNM_N", Codes: []string{"21906-3"}, Keywords: []string{"lymph node"}},
				Column:    ColTNMN,
			},
			{
				Biomarker: Biomarker{Name: "TNM_M", Codes: []string{"21907-1"}, Keywords: []string{"metasta"}},
				Column:    ColTNMM,
			},
			{
				Biomarker:    Biomarker{Name: "ER", Codes: []string{"16112-5"}, Keywords: []string{"estrogen receptor"}},
				Column:       "er_percentage",
				StatusColumn: "er_status",
				Categorize:   receptorStatus(),
			},
			{
				Biomarker:    Biomarker{Name: "PR", Codes: []string{"16113-3"}, Keywords: []string{"progesterone receptor"}},
				Column:       "pr_percentage",
				StatusColumn: "pr_status",
				Categorize:   receptorStatus(),
			},
			{
				Biomarker: Biomarker{Name: "HER2", Codes: []string{"48676-1"}, Keywords: []string{"her2", "her-2"}},
				Column:    "her2_status",
			},
			{
				Biomarker: Biomarker{Name: "Ki67", Codes: []string{"85319-2"}, Keywords: []string{"ki-67", "ki67"}},
				Column:    "ki67_percentage",
			},
			{
				Biomarker: Biomarker{Name: "Clinical_Stage", Keywords: []string{"clinical stage"}},
				Column:    "clinical_stage",
			},
			{
				Biomarker: Biomarker{Name: "Pathological_Stage", Keywords: []string{"pathological stage"}},
				Column:    "pathological_stage",
			},
		},
		Required: []Biomarker{
			{Name: "TNM_T", Codes: []string{"21905-5"}, Keywords: []string{"primary tumor", "tumor staging", "t stage", "tnm t"}},
			{Name: "TNM_N", Codes: []string{"21906-3"}, Keywords: []string{"regional lymph", "node", "n stage", "tnm n", "lymph node"}},
			{Name: "TNM_M", Codes: []string{"21907-1"}, Keywords: []string{"distant metasta", "m stage", "tnm m", "metastasis"}},
			{Name: "ER", Codes: []string{"16112-5"}, Keywords: []string{"estrogen receptor", "er receptor", "er status"}},
			{Name: "PR", Codes: []string{"16113-3"}, Keywords: []string{"progesterone receptor", "pr receptor", "pr status"}},
			{Name: "HER2", Codes: []string{"48676-1"}, Keywords: []string{"her2", "her-2", "erbb2"}},
			{Name: "Ki67", Codes: []string{"85319-2"}, Keywords: []string{"ki-67", "ki67", "mib-1"}},
			{Name: "Clinical_Stage", Codes: []string{"21908-9", "21902-2"}, Keywords: []string{"clinical stage", "pathological stage", "cancer stage"}},
		},
		Columns: []string{
			ColPatientID, ColAge, ColGender,
			ColTNMT, ColTNMN, ColTNMM, ColTNMComplete,
			"er_status", "er_percentage", "pr_status", "pr_percentage",
			"her2_status", "ki67_percentage",
			"clinical_stage", "pathological_stage", "histology", "diagnosis_date",
		},
		PreviewColumns: []string{
			ColPatientID, ColAge, ColTNMT, ColTNMN, ColTNMM,
			"er_status", "her2_status", "ki67_percentage",
		},
	}
}

// lungProfile returns the built-in lung cancer profile.
// Per prd003-profiles R1.6; rule data mirrors docs/DATASET § Lung.
func lungProfile() *Profile {
	return &Profile{
		CancerType: types.CancerLung,
		Diagnosis: Diagnosis{
			SiteKeywords: []string{"lung"},
			DateColumn:   "diagnosis_date",
		},
		Captures: []Capture{
			{
				Biomarker: Biomarker{Name: "TNM_T", Codes: []string{"21905-5"}, Keywords: []string{"primary tumor"}},
				Column:    ColTNMT,
			},
			{
				Biomarker: Biomarker{Name: "TNM_N", Codes: []string{"21906-3"}, Keywords: []string{"lymph node"}},
				Column:    ColTNMN,
			},
			{
				Biomarker: Biomarker{Name: "TNM_M", Codes: []string{"21907-1"}, Keywords: []string{"metasta"}},
				Column:    ColTNMM,
			},
			{
				Biomarker: Biomarker{Name: "Histology", Keywords: []string{"adenocarcinoma", "squamous", "large cell", "small cell"}},
				Column:    "histology",
				Labels: []LabelRule{
					{Match: "adenocarcinoma", Value: "Adenocarcinoma"},
					{Match: "squamous", Value: "Squamous Cell Carcinoma"},
					{Match: "large cell", Value: "Large Cell Carcinoma"},
					{Match: "small cell", Value: "Small Cell Lung Cancer"},
				},
			},
			{
				Biomarker: Biomarker{Name: "EGFR", Codes: []string{"81691-4"}, Keywords: []string{"egfr"}},
				Column:    "egfr_mutation",
			},
			{
				Biomarker: Biomarker{Name: "ALK", Codes: []string{"80546-6"}, Keywords: []string{"alk"}},
				Column:    "alk_status",
			},
			{
				Biomarker:    Biomarker{Name: "PDL1", Codes: []string{"85147-7"}, Keywords: []string{"pd-l1", "pdl1"}},
				Column:       "pdl1_percentage",
				StatusColumn: "pdl1_category",
				Categorize: &Categorizer{
					Kind: KindBands,
					Bands: []Band{
						{Min: 50, Label: "High (≥50%)"},
						{Min: 1, Label: "Low (1-49%)"},
					},
					Fallback: "Negative (<1%)",
				},
			},
			{
				Biomarker:    Biomarker{Name: "FEV1", Codes: []string{"20150-9"}, Keywords: []string{"fev1"}},
				Column:       "fev1_percentage",
				StatusColumn: "fev1_category",
				Categorize: &Categorizer{
					Kind: KindBands,
					Bands: []Band{
						{Min: 80, Label: "Normal"},
						{Min: 60, Label: "Mild obstruction"},
						{Min: 40, Label: "Moderate obstruction"},
					},
					Fallback: "Severe obstruction",
				},
			},
			{
				Biomarker:    Biomarker{Name: "DLCO", Codes: []string{"19911-7"}, Keywords: []string{"dlco"}},
				Column:       "dlco_percentage",
				StatusColumn: "dlco_category",
				Categorize: &Categorizer{
					Kind: KindBands,
					Bands: []Band{
						{Min: 75, Label: "Normal"},
						{Min: 60, Label: "Mild reduction"},
						{Min: 40, Label: "Moderate reduction"},
					},
					Fallback: "Severe reduction",
				},
			},
			{
				Biomarker: Biomarker{Name: "Clinical_Stage", Keywords: []string{"clinical stage", "cancer stage"}},
				Column:    "clinical_stage",
			},
			{
				Biomarker: Biomarker{Name: "Smoking", Keywords: []string{"smoking", "tobacco"}},
				Column:    "smoking_status",
			},
		},
		Required: []Biomarker{
			{Name: "TNM_T", Codes: []string{"21905-5"}, Keywords: []string{"primary tumor", "tumor staging", "t stage", "tnm t"}},
			{Name: "TNM_N", Codes: []string{"21906-3"}, Keywords: []string{"regional lymph", "node", "n stage", "tnm n", "lymph node"}},
			{Name: "TNM_M", Codes: []string{"21907-1"}, Keywords: []string{"distant metasta", "m stage", "tnm m", "metastasis"}},
			{Name: "Histology", Codes: []string{"59847-4", "31206-6"}, Keywords: []string{"histolog", "carcinoma", "adenocarcinoma", "squamous"}},
			{Name: "EGFR", Codes: []string{"81691-4"}, Keywords: []string{"egfr", "epidermal growth factor"}},
			{Name: "ALK", Codes: []string{"80546-6"}, Keywords: []string{"alk", "anaplastic lymphoma kinase"}},
			{Name: "PDL1", Codes: []string{"85147-7"}, Keywords: []string{"pd-l1", "pdl1", "programmed death"}},
			{Name: "FEV1", Codes: []string{"20150-9"}, Keywords: []string{"fev1", "forced expiratory volume"}},
			{Name: "DLCO", Codes: []string{"19911-7"}, Keywords: []string{"dlco", "diffusing capacity"}},
		},
		Columns: []string{
			ColPatientID, ColAge, ColGender,
			ColTNMT, ColTNMN, ColTNMM, ColTNMComplete,
			"histology", "egfr_mutation", "alk_status",
			"pdl1_percentage", "pdl1_category",
			"fev1_percentage", "fev1_category",
			"dlco_percentage", "dlco_category",
			"clinical_stage", "smoking_status", "diagnosis_date",
		},
		PreviewColumns: []string{
			ColPatientID, ColAge, ColTNMT, ColTNMN, ColTNMM,
			"histology", "egfr_mutation", "pdl1_percentage",
		},
	}
}
