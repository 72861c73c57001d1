package service

// Broadcaster pushes server frames to the live connection of a session
// (implemented by the WebSocket hub, declared here to avoid an import cycle)
type Broadcaster interface {
	SendToSession(sessionID string, msgType string, payload interface{})
	Connected(sessionID string) bool
}
