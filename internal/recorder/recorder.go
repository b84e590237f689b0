package recorder

import "github.com/yyyfor/stock-master/internal/model"

// Recorder persists historical cycle data for later analysis.
type Recorder interface {
	RecordCycle(records map[string]*model.CompanyRecord) error
	RecordQuality(level, message string) error
	Close() error
}
