// Package ygnbrain is the cognitive control plane for agentic LLM
// runtimes: an Orchestrator FSM, Context Compiler, Guard Pipeline, Swarm
// Engine, and Refinement Harness, tracing every decision to a
// cryptographically hash-chained evidence pack.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/yannabadie/ygn-brain/cmd/ygn-brain@latest
//
// Run a single pass:
//
//	ygn-brain run --input "plan the migration" --provider gemini
//	ygn-brain run --input "..." --evidence-out evidence.json
//
// # Using as a Go library
//
// Import specific packages:
//
//	import (
//	    "github.com/yannabadie/ygn-brain/pkg/orchestrator"
//	    "github.com/yannabadie/ygn-brain/pkg/guard"
//	    "github.com/yannabadie/ygn-brain/pkg/config"
//	)
//
// # Key components
//
//   - Orchestrator: a seven-phase FSM (diagnosis, analysis, planning,
//     execution, validation, synthesis, complete) driving one pass
//   - Guard Pipeline: pluggable input classifiers (regex, Ollama model,
//     tool-invocation heuristics) that can short-circuit a run
//   - Context Compiler: budget-aware working-context assembly with
//     history selection, compaction, memory preload, and artifact
//     externalization
//   - Swarm Engine: task-complexity analysis choosing parallel,
//     sequential, specialist, or single-call LLM coordination
//   - Refinement Harness: generate-verify-refine loops with consensus
//     selection across candidates
//   - Evidence Pack: an append-only, hash-chained record of every
//     decision a run made, for audit and replay
package ygnbrain
