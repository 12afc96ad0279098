package app

import (
	"time"

	"aircanary.dev/internal/pipeline"
)

// TickMsg refreshes the status line.
type TickMsg time.Time

// MatchMsg carries a pipeline match into the UI.
type MatchMsg pipeline.Match
