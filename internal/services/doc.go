// Package services defines shared utilities consumed by the pipeline
// components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, pipeline phases, document
//     paths, and asset URLs for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (fetch vs parse vs corrupt cache) consistent across
//     components.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across commands.
package services
