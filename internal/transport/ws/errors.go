package ws

import "errors"

// ErrSessionShutdown is emitted when the server requests a session shutdown.
var ErrSessionShutdown = errors.New("websocket session shutdown")
