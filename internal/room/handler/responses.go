package handler

import "gatekeeper/internal/room/models"

// RoomResponse is the wire representation of a room.
type RoomResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FromRoom converts a room to its wire representation.
func FromRoom(room *models.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID.Int64(),
		Name:        room.Name,
		Description: room.Description,
	}
}

// ListResponse is the HTTP response for GET /rooms.
type ListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}
