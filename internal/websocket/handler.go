package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"ai-interviewer-be/internal/pkg/serverutils"
)

// UpgradeMiddleware validates the room token before the protocol switch and
// rejects plain HTTP requests on the websocket route.
func UpgradeMiddleware(jwtSecret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := serverutils.ParseRoomToken(jwtSecret, ctx.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid room token")
		}
		if claims.SessionID != ctx.Params("id") {
			return fiber.NewError(fiber.StatusUnauthorized, "room token does not match session")
		}

		ctx.Locals("room_claims", claims)
		return ctx.Next()
	}
}

// Handler turns the dispatcher into the fiber websocket route handler.
func Handler(dispatcher *Dispatcher) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		claims, ok := conn.Locals("room_claims").(*serverutils.RoomClaims)
		if !ok {
			conn.Close()
			return
		}
		dispatcher.Serve(conn, claims)
	})
}
