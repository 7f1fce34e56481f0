package cache

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey identifies a loaded dataset by source kind and reference
	// (file path, collection name).
	DatasetKey(source, ref string) string

	// SnapshotKey identifies a computed grid snapshot.
	SnapshotKey(datasetHash string, opts SnapshotKeyOpts) string

	// LanesKey identifies the lane assignment of one resource.
	LanesKey(datasetHash, resourceID string) string
}

// SnapshotKeyOpts holds every parameter that changes a snapshot.
type SnapshotKeyOpts struct {
	View         string   `json:"view"`
	Anchor       string   `json:"anchor"`
	DayStartHour int      `json:"day_start_hour"`
	DayEndHour   int      `json:"day_end_hour"`
	HourWidth    float64  `json:"hour_width"`
	RowHeight    float64  `json:"row_height"`
	HeaderHeight float64  `json:"header_height"`
	Overscan     int      `json:"overscan"`
	Scroll       float64  `json:"scroll"`
	Viewport     float64  `json:"viewport"`
	Collapsed    []string `json:"collapsed,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns "dataset:<source>:<ref>".
func (DefaultKeyer) DatasetKey(source, ref string) string {
	return "dataset:" + source + ":" + ref
}

// SnapshotKey returns "snapshot:<hash>".
func (DefaultKeyer) SnapshotKey(datasetHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", datasetHash, opts)
}

// LanesKey returns "lanes:<hash>".
func (DefaultKeyer) LanesKey(datasetHash, resourceID string) string {
	return hashKey("lanes", datasetHash, resourceID)
}
