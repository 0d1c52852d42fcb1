package commands

import (
	"time"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory"
	"github.com/offcontext/offcontext/pkg/memory/transcript"
)

// hookLatencyTarget is the budget for the whole capture path. Exceeding it
// is logged as a warning, never treated as an error.
const hookLatencyTarget = 100 * time.Millisecond

// HookResult reports what one capture pass did, item by item, so batch
// behavior stays observable even though the hook path is silent.
type HookResult struct {
	Parsed  int
	Stored  int
	Failed  int
	Elapsed time.Duration
}

// Hook processes one turn-completed transcript: parse, then store each
// conversation individually. It is called by the runtime's Stop hook on
// every finished turn, so it never returns an error; every failure is
// logged and absorbed.
func Hook(project *config.Project, log *logging.Logger, transcriptPath string) HookResult {
	start := time.Now()
	var res HookResult

	if project == nil {
		log.Debugf("hook: not inside an initialized project, skipping %s", transcriptPath)
		return res
	}

	cfg, err := project.LoadConfig()
	if err != nil {
		log.Warnf("hook: load configuration: %v", err)
		return res
	}
	if !cfg.Hooks.Enabled {
		log.Debugf("hook: capture disabled by configuration")
		return res
	}

	convs, err := transcript.Parse(transcriptPath)
	if err != nil {
		log.Warnf("hook: parse transcript %s: %v", transcriptPath, err)
		return res
	}
	res.Parsed = len(convs)
	if len(convs) == 0 {
		log.Debugf("hook: no conversations found in %s", transcriptPath)
		return res
	}

	store, err := memory.NewFileStore(cfg.Database.Path, cfg.Database.Collection)
	if err != nil {
		log.Warnf("hook: open store: %v", err)
		return res
	}

	ctx := background()
	for _, conv := range convs {
		if err := store.Insert(ctx, conv); err != nil {
			res.Failed++
			log.Warnf("hook: store conversation %s: %v", conv.ID, err)
			continue
		}
		res.Stored++
	}

	res.Elapsed = time.Since(start)
	if res.Elapsed > hookLatencyTarget {
		log.Warnf("hook: processing took %s (target <%s)", res.Elapsed, hookLatencyTarget)
	} else {
		log.Debugf("hook: stored %d/%d conversations in %s", res.Stored, res.Parsed, res.Elapsed)
	}
	return res
}
