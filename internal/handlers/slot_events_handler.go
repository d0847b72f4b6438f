package handlers

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	slotws "github.com/saeid-a/CoachMatchBack/internal/websocket"
	"github.com/saeid-a/CoachMatchBack/pkg/utils"
)

const coachIDsLocal = "coach_ids"

type SlotEventsHandler struct {
	hub *slotws.Hub
}

func NewSlotEventsHandler(hub *slotws.Hub) *SlotEventsHandler {
	return &SlotEventsHandler{hub: hub}
}

// Upgrade validates the subscription before the connection is upgraded.
func (h *SlotEventsHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(errorEnvelope{
			Error:   "Upgrade required",
			Message: "WebSocket upgrade required",
		})
	}

	coachIDs, err := utils.ParseIDList(c.Query("coach_ids"))
	if err != nil {
		return badRequest(c, "coach_ids must be a non-empty JSON array or comma separated list of UUIDs")
	}

	c.Locals(coachIDsLocal, coachIDs)
	return c.Next()
}

func (h *SlotEventsHandler) Stream(conn *websocket.Conn) {
	coachIDs, _ := conn.Locals(coachIDsLocal).([]uuid.UUID)
	client := slotws.NewClient(h.hub, conn, coachIDs)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}
