package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleError is the app's fiber.ErrorHandler. An upload over the body limit never reaches
// HandleSelect, so it is turned into a toast here and the user stays on the upload page.
func (s *Server) HandleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusRequestEntityTooLarge {
		sess, serr := s.sessions.Get(c)
		if serr != nil {
			return fiber.DefaultErrorHandler(c, err)
		}

		target := "/"
		if strings.HasPrefix(c.Path(), "/upload") {
			target = "/upload"
		}
		s.log.Warn("request body too large", zap.String("path", c.Path()))
		setToast(sess, "File too large", "The selected file exceeds the upload size limit.", VariantDestructive)
		return redirect(c, sess, target)
	}

	if fe == nil || fe.Code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return fiber.DefaultErrorHandler(c, err)
}
