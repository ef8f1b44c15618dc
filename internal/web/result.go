package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/store"
)

// HandleResult shows the session's last analysis. Viewing does not clear it.
func (s *Server) HandleResult(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	result, err := s.results.Load(c.UserContext(), sess.ID())
	if errors.Is(err, store.ErrNoAnalysis) {
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/upload")
	}
	if err != nil {
		return err
	}

	return s.render(c, sess, "result", PageData{
		Title:  "Analysis Result",
		Result: result,
	})
}

func (s *Server) HandleClearResult(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	if err := s.results.Clear(c.UserContext(), sess.ID()); err != nil {
		s.log.Warn("failed to clear analysis", zap.String("session", sess.ID()), zap.Error(err))
	}
	return redirect(c, sess, "/upload")
}
