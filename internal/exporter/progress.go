package exporter

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

// progressReporter 百分比限制在 0-100，且只增不减；相同百分比不重复上报
type progressReporter struct {
	fn   func(ProgressEvent)
	last int
}

func newProgressReporter(fn func(ProgressEvent)) *progressReporter {
	return &progressReporter{fn: fn, last: -1}
}

func (r *progressReporter) report(percent int, stage string) {
	if r == nil || r.fn == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent <= r.last {
		return
	}
	r.last = percent
	r.fn(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}
