package recorder

import "github.com/yyyfor/stock-master/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCycle(_ map[string]*model.CompanyRecord) error { return nil }
func (n *NoopRecorder) RecordQuality(_, _ string) error                     { return nil }
func (n *NoopRecorder) Close() error                                        { return nil }
