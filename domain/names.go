package domain

// Unit names.
const (
	UnitOrchestrator = "orchestrator"
	UnitIngestion    = "cv_ingestion"
	UnitAnalysis     = "job_understanding"
	UnitInteraction  = "user_interaction"
	UnitStorage      = "knowledge_storage"
	UnitGeneration   = "cv_generator"
)

// Action names.
const (
	ActionRun             = "run"
	ActionParse           = "parse"
	ActionAnalyzeGap      = "analyze_gap"
	ActionAnalyzeJob      = "analyze_job"
	ActionCollectInfo     = "collect_info"
	ActionStoreRecord     = "store_record"
	ActionStoreSession    = "store_session"
	ActionRetrieveRecord  = "retrieve_record"
	ActionRetrieveSession = "retrieve_session"
	ActionSearchSimilar   = "search_similar"
	ActionGenerate        = "generate"
)

// Parameter and payload keys.
const (
	KeySourceRef         = "source_ref"
	KeyUserID            = "user_id"
	KeySessionID         = "session_id"
	KeyStructuredContent = "structured_content"
	KeyValidation        = "validation"
	KeyMetadata          = "metadata"
	KeyJobDescription    = "job_description"
	KeySourceType        = "source_type"
	KeyGaps              = "gaps"
	KeyUpdatedContent    = "updated_content"
	KeyGapsAddressed     = "gaps_addressed"
	KeyRecordID          = "record_id"
	KeySessionRecord     = "session_record"
	KeyJobRequirements   = "job_requirements"
	KeyGapAnalysis       = "gap_analysis"
	KeyOutputArtifacts   = "output_artifacts"
	KeyQuery             = "query"
	KeyTopK              = "top_k"
	KeyResult            = "result"
)

// Step identifiers recorded in a session's steps_completed.
const (
	StepIngestion       = "ingestion"
	StepGapAnalysis     = "gap_analysis"
	StepUserInteraction = "user_interaction"
	StepKnowledgeStore  = "knowledge_storage"
	StepCVGeneration    = "cv_generation"
)

// Job description source types.
const (
	SourceText = "text"
	SourceURL  = "url"
)
