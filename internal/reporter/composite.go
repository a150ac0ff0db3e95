package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) SessionStarted(info SessionInfo) {
	for _, r := range c.reporters {
		r.SessionStarted(info)
	}
}

func (c *CompositeReporter) FileStarted(context FileContext) {
	for _, r := range c.reporters {
		r.FileStarted(context)
	}
}

func (c *CompositeReporter) DetectionResult(summary DetectionSummary) {
	for _, r := range c.reporters {
		r.DetectionResult(summary)
	}
}

func (c *CompositeReporter) StageStarted(stage, message string) {
	for _, r := range c.reporters {
		r.StageStarted(stage, message)
	}
}

func (c *CompositeReporter) StageProgress(update StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(update)
	}
}

func (c *CompositeReporter) ToolOutput(line string) {
	for _, r := range c.reporters {
		r.ToolOutput(line)
	}
}

func (c *CompositeReporter) RepairComplete(outcome RepairOutcome) {
	for _, r := range c.reporters {
		r.RepairComplete(outcome)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReportedError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}
