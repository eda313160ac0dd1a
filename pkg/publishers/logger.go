package publishers

// Logger defines the logging surface publishers rely on.
// internal/logger.Logger satisfies it.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// deliveryFields is the common log payload for a publish attempt.
func deliveryFields(id string, evt Event, err error) map[string]any {
	fields := map[string]any{
		"publisher_id": id,
		"player_id":    evt.PlayerID,
		"mode":         evt.Mode,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}
