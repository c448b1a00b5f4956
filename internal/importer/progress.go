package importer

import "time"

// 进度事件类型
const (
	EventStart      = "start"
	EventInfo       = "info"
	EventSheetStart = "sheet_start"
	EventSheetDone  = "sheet_done"
	EventWarning    = "warning"
	EventError      = "error"
	EventDone       = "done"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/sheet_start/sheet_done/warning/error/done
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

func newEvent(typ, message string, data interface{}) ProgressEvent {
	return ProgressEvent{
		Type:      typ,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func sendInfo(emit func(ProgressEvent), message string, data interface{}) {
	if emit == nil {
		return
	}
	emit(newEvent(EventInfo, message, data))
}
