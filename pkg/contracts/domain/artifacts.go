package domain

// ArtifactStatus describes one catalogued dataset.
type ArtifactStatus struct {
	Dataset        string   `json:"dataset"`
	File           string   `json:"file"`
	Available      bool     `json:"available"`
	Rows           int      `json:"rows"`
	Columns        []string `json:"columns,omitempty"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// ArtifactCatalog is the diagnostics view of the artifacts directory.
type ArtifactCatalog struct {
	Artifacts []ArtifactStatus `json:"artifacts"`
	Available int              `json:"available"`
	Total     int              `json:"total"`
}

// TableData is a raw dataset dump.
type TableData struct {
	Dataset string     `json:"dataset"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
