package config

// EmbeddingBackend selects how chunks are vectorized.
type EmbeddingBackend string

const (
	// BackendAuto picks OpenAI when a key is configured, local otherwise.
	BackendAuto EmbeddingBackend = ""
	// BackendOpenAI uses the OpenAI batch embedding API.
	BackendOpenAI EmbeddingBackend = "openai"
	// BackendLocal uses the deterministic hash embedder.
	BackendLocal EmbeddingBackend = "local"
)

// Config is the top-level datacore configuration, corresponding to
// .datacore.yml.
type Config struct {
	Project      string          `yaml:"project" koanf:"project"`
	DataRoot     string          `yaml:"data_root" koanf:"data_root"`
	StoreDir     string          `yaml:"store_dir" koanf:"store_dir"`
	ChunkTokens  int             `yaml:"chunk_tokens" koanf:"chunk_tokens"`
	ChunkOverlap int             `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	ScrubPII     bool            `yaml:"scrub_pii" koanf:"scrub_pii"`
	Blocklist    []string        `yaml:"blocklist" koanf:"blocklist"`
	Embedding    EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Sources      SourcesConfig   `yaml:"sources" koanf:"sources"`
	Rerank       RerankConfig    `yaml:"rerank" koanf:"rerank"`
	Server       ServerConfig    `yaml:"server" koanf:"server"`
}

// EmbeddingConfig selects and parameterizes the embedding backend.
type EmbeddingConfig struct {
	Backend EmbeddingBackend `yaml:"backend" koanf:"backend"`
	Model   string           `yaml:"model" koanf:"model"`
}

// SourcesConfig holds per-connector settings.
type SourcesConfig struct {
	FS     []FSSource   `yaml:"fs" koanf:"fs"`
	GitHub GitHubSource `yaml:"github" koanf:"github"`
	GDrive GDriveSource `yaml:"gdrive" koanf:"gdrive"`
	Gmail  GmailSource  `yaml:"gmail" koanf:"gmail"`
}

// FSSource is one filesystem scan root.
type FSSource struct {
	Path     string   `yaml:"path" koanf:"path"`
	Patterns []string `yaml:"patterns" koanf:"patterns"`
}

// GitHubSource configures the hosted-repository connector. The token comes
// from GITHUB_TOKEN, never from the config file.
type GitHubSource struct {
	Enable bool     `yaml:"enable" koanf:"enable"`
	Repo   string   `yaml:"repo" koanf:"repo"`
	Globs  []string `yaml:"globs" koanf:"globs"`
}

// GDriveSource configures the cloud-drive connector.
type GDriveSource struct {
	Enable          bool     `yaml:"enable" koanf:"enable"`
	CredentialsFile string   `yaml:"credentials_file" koanf:"credentials_file"`
	Include         []string `yaml:"include" koanf:"include"`
	MaxFiles        int      `yaml:"max_files" koanf:"max_files"`
}

// GmailSource configures the mailbox connector.
type GmailSource struct {
	Enable     bool   `yaml:"enable" koanf:"enable"`
	TokenFile  string `yaml:"token_file" koanf:"token_file"`
	Query      string `yaml:"query" koanf:"query"`
	MaxResults int    `yaml:"max_results" koanf:"max_results"`
}

// RerankConfig controls lexical rerank fusion at query time.
type RerankConfig struct {
	Enable bool `yaml:"enable" koanf:"enable"`
	// Alpha weights the vector score in [0,1]; 1-Alpha weights the
	// lexical score.
	Alpha float64 `yaml:"alpha" koanf:"alpha"`
	// CandidateMultiplier widens the candidate pool to k*multiplier.
	CandidateMultiplier int `yaml:"candidate_multiplier" koanf:"candidate_multiplier"`
}

// ServerConfig holds the HTTP search API settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
}
