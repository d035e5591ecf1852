// Package generation implements the cv_generator unit: it tailors a CV to a
// job, picks a layout from the job title and renders Markdown and JSON
// artifacts into a core.ArtifactStore.
package generation
