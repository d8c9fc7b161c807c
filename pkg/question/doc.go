// Package question exposes the question document model consumed by the wizard
// together with the loader contracts used to fetch it. Loader implementations
// live under internal/loader and document schema checks under
// internal/docschema so kin-openapi stays hidden from consumers.
package question
