package web

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"alfredoptarigan/resume-predictor/internal/models"
)

const (
	SessionCookie    = "resumeai_session"
	CredentialCookie = "openai_api_key"

	keyUpload   = "upload"
	keyToast    = "toast"
	keyChatOpen = "chat_open"

	credentialLifetime = 365 * 24 * time.Hour
)

// NewSessionStore keeps the session cookie browser-session scoped, like tab storage.
func NewSessionStore(ttl time.Duration) *session.Store {
	return session.New(session.Config{
		Expiration:        ttl,
		KeyLookup:         "cookie:" + SessionCookie,
		CookieHTTPOnly:    true,
		CookieSameSite:    "Lax",
		CookieSessionOnly: true,
	})
}

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is the one pending notification of a session, shown on the next render.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

func setToast(sess *session.Session, title, description string, variant Variant) {
	data, _ := json.Marshal(Toast{Title: title, Description: description, Variant: variant})
	sess.Set(keyToast, string(data))
}

// popToast removes and returns the pending toast, if any.
func popToast(sess *session.Session) *Toast {
	raw, ok := sess.Get(keyToast).(string)
	if !ok {
		return nil
	}
	sess.Delete(keyToast)

	var toast Toast
	if err := json.Unmarshal([]byte(raw), &toast); err != nil {
		return nil
	}
	return &toast
}

func selectedUpload(sess *session.Session) *models.UploadedFile {
	raw, ok := sess.Get(keyUpload).(string)
	if !ok {
		return nil
	}

	var upload models.UploadedFile
	if err := json.Unmarshal([]byte(raw), &upload); err != nil {
		return nil
	}
	return &upload
}

func setUpload(sess *session.Session, upload *models.UploadedFile) {
	data, _ := json.Marshal(upload)
	sess.Set(keyUpload, string(data))
}

func chatOpen(sess *session.Session) bool {
	open, _ := sess.Get(keyChatOpen).(bool)
	return open
}

func credential(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies(CredentialCookie))
}

// setCredential stores the key across browser sessions; a blank key removes it.
func setCredential(c *fiber.Ctx, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		c.Cookie(&fiber.Cookie{
			Name:     CredentialCookie,
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     CredentialCookie,
		Value:    key,
		Path:     "/",
		Expires:  time.Now().Add(credentialLifetime),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// returnTo accepts only same-site absolute paths.
func returnTo(c *fiber.Ctx) string {
	target := strings.TrimSpace(c.FormValue("return_to"))
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return "/"
	}
	return target
}
