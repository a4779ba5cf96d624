package vectordb

// Metadata keys attached to every stored chunk. Values are flat strings;
// they carry attribution and filtering data, never similarity inputs.
const (
	MetaSource   = "source"
	MetaProject  = "project"
	MetaCategory = "category"
)

// Entry is one stored chunk: content-addressed id, chunk text, its embedding,
// and flat string metadata. Entries are keyed uniquely by ID; re-upserting an
// id overwrites the previous payload.
type Entry struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]string
}

// Result is a query hit. Distance is a similarity distance (0 = identical),
// and query results are ordered ascending by it.
type Result struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Source returns the source metadata value, or "" when absent.
func (r Result) Source() string {
	return r.Metadata[MetaSource]
}
