package providers

import (
	"github.com/gofiber/fiber/v3"
)

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/ws/info", s.handleInfo)
	s.app.Get("/ws/clients", s.handleClients)
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleInfo(c fiber.Ctx) error {
	stats := s.hub.Stats()
	return c.JSON(fiber.Map{
		"websocket": true,
		"endpoint":  s.cfg.Path,
		"stats":     stats,
	})
}

func (s *Server) handleClients(c fiber.Ctx) error {
	infos := s.service.ClientInfos()
	return c.JSON(fiber.Map{
		"clients": infos,
		"count":   len(infos),
	})
}
