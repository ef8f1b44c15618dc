package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-predictor/internal/chat"
)

func (s *Server) HandleChatOpen(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyChatOpen, true)
	return redirect(c, sess, returnTo(c))
}

// HandleChatClose hides the widget and drops its transcript.
func (s *Server) HandleChatClose(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Delete(keyChatOpen)
	s.widget.Close(sess.ID())
	return redirect(c, sess, returnTo(c))
}

func (s *Server) HandleChatSend(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyChatOpen, true)

	err = s.widget.Send(c.UserContext(), sess.ID(), c.FormValue("message"), credential(c))
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyMessage):
	case errors.Is(err, chat.ErrBusy):
		setToast(sess, "Please wait", "The assistant is still answering your previous message.", VariantDefault)
	default:
		setToast(sess, "Error", "Failed to get response from OpenAI. Please check your API key and try again.", VariantDestructive)
	}
	return redirect(c, sess, returnTo(c))
}

// HandleChatKey caches the user's API key in a long-lived cookie; blank removes it.
func (s *Server) HandleChatKey(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	setCredential(c, c.FormValue("api_key"))
	return redirect(c, sess, returnTo(c))
}
