package domain

import "time"

type RoomID int64

// Room is a configured event room candidate for activity heartbeats.
type Room struct {
	ID    RoomID
	Label string
}

// EventRoomState is the ephemeral state of one (account, room) heartbeat
// chain. Created when discovery reports the room wants heartbeats; dropped
// when the server disables them or the chain errors.
type EventRoomState struct {
	RoomID   RoomID
	Interval time.Duration
	Active   bool
}
