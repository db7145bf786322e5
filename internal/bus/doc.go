// Package bus implements the OVOS message bus client used by colorschemed.
// It provides the Message envelope, a Bus interface that components register
// handlers against, an in-process MemoryBus, and a WebsocketClient that
// speaks the OVOS JSON-over-websocket protocol.
package bus
