package websocket

import "encoding/json"

type OutgoingMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// IncomingMessage is the client command envelope. Data stays raw so
// the registry's handlers can decode their own payload shapes. From
// and Name are stamped server-side from the authenticated connection,
// never trusted from the wire.
type IncomingMessage struct {
	From  string          `json:"from"`
	Name  string          `json:"name"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
