package journal

// Schema DDL. Statements are idempotent so Open can run them on every start.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    script TEXT NOT NULL,
    branch TEXT NOT NULL,
    final_len INTEGER NOT NULL,
    step_count INTEGER NOT NULL,
    frames TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL
);`

	createSteps = `CREATE TABLE IF NOT EXISTS steps (
    run_id TEXT NOT NULL,
    step_index INTEGER NOT NULL,
    op TEXT NOT NULL,
    kind TEXT,
    branch TEXT NOT NULL,
    outcome TEXT NOT NULL,
    value TEXT,
    len INTEGER NOT NULL,
    tags TEXT,
    PRIMARY KEY (run_id, step_index),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`

	idxRunsStarted = `CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`
	idxRunsScript  = `CREATE INDEX IF NOT EXISTS idx_runs_script ON runs(script);`
)

var schemaDDL = []string{
	createRuns,
	createSteps,
	idxRunsStarted,
	idxRunsScript,
}
