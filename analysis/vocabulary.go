package analysis

// DefaultVocabulary lists the skills KeywordExtractor recognizes.
var DefaultVocabulary = []string{
	// languages
	"go", "python", "java", "javascript", "typescript", "rust", "c++", "c#",
	"ruby", "php", "kotlin", "swift", "scala", "sql", "bash",
	// data
	"postgresql", "mysql", "mongodb", "redis", "kafka", "rabbitmq", "elasticsearch",
	"spark", "airflow", "dbt", "snowflake", "bigquery",
	// platform
	"docker", "kubernetes", "terraform", "ansible", "helm", "aws", "azure", "gcp",
	"linux", "git", "ci/cd", "prometheus", "grafana", "opentelemetry",
	// architecture
	"grpc", "rest", "graphql", "microservices", "distributed systems", "event-driven",
	// web
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	// ml
	"machine learning", "deep learning", "pytorch", "tensorflow", "nlp", "llm",
	// practice
	"agile", "scrum", "tdd", "code review", "leadership", "mentoring", "communication",
}

// aliases maps alternative spellings onto vocabulary terms.
var aliases = map[string]string{
	"golang":   "go",
	"k8s":      "kubernetes",
	"postgres": "postgresql",
	"nodejs":   "node.js",
	"ml":       "machine learning",
	"gke":      "gcp",
	"eks":      "aws",
	"ts":       "typescript",
	"js":       "javascript",
}
