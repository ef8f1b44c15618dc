// Package web is the server-rendered ResumeAI application: navigation, upload flow,
// result display, about page and the chat widget.
package web

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/chat"
	"alfredoptarigan/resume-predictor/internal/models"
	"alfredoptarigan/resume-predictor/internal/services"
	"alfredoptarigan/resume-predictor/internal/store"
)

// Analyzer submits one résumé for prediction.
type Analyzer interface {
	Predict(ctx context.Context, filename string, data []byte) (*models.AnalysisResult, error)
}

type Server struct {
	sessions *session.Store
	storage  services.StorageService
	analyzer Analyzer
	results  store.AnalysisStore
	widget   *chat.Widget
	log      *zap.Logger
	busy     inflight
}

func NewServer(
	sessions *session.Store,
	storage services.StorageService,
	analyzer Analyzer,
	results store.AnalysisStore,
	widget *chat.Widget,
	log *zap.Logger,
) *Server {
	return &Server{
		sessions: sessions,
		storage:  storage,
		analyzer: analyzer,
		results:  results,
		widget:   widget,
		log:      log,
	}
}

func (s *Server) Register(app *fiber.App) {
	app.Get("/", s.HandleHome)
	app.Get("/about", s.HandleAbout)

	upload := app.Group("/upload")
	upload.Get("/", s.HandleUploadPage)
	upload.Post("/select", s.HandleSelect)
	upload.Post("/remove", s.HandleRemove)
	upload.Post("/analyze", s.HandleAnalyze)

	result := app.Group("/result")
	result.Get("/", s.HandleResult)
	result.Post("/clear", s.HandleClearResult)

	widget := app.Group("/chat")
	widget.Post("/open", s.HandleChatOpen)
	widget.Post("/close", s.HandleChatClose)
	widget.Post("/send", s.HandleChatSend)
	widget.Post("/key", s.HandleChatKey)
}

type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// Navigation marks the entry whose path equals the current route.
func Navigation(current string) []NavItem {
	items := []NavItem{
		{Label: "Home", Path: "/"},
		{Label: "Upload", Path: "/upload"},
		{Label: "About", Path: "/about"},
	}
	for i := range items {
		items[i].Active = items[i].Path == current
	}
	return items
}

type ChatView struct {
	Open    bool
	Entries []chat.Entry
	Pending bool
	HasKey  bool
}

// PageData is the binding of every page; page-specific fields stay zero elsewhere.
type PageData struct {
	Title      string
	Path       string
	Nav        []NavItem
	Toast      *Toast
	Chat       ChatView
	Upload     *models.UploadedFile
	Analyzing  bool
	Result     *models.AnalysisResult
	Categories []services.JobCategory
}

// render fills the shell fields, persists the session and renders page.
func (s *Server) render(c *fiber.Ctx, sess *session.Session, page string, data PageData) error {
	sid := sess.ID()

	data.Path = c.Path()
	data.Nav = Navigation(data.Path)
	data.Toast = popToast(sess)
	data.Chat = ChatView{
		Open:    chatOpen(sess),
		Entries: s.widget.Entries(sid),
		Pending: s.widget.Pending(sid),
		HasKey:  credential(c) != "",
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Render("pages/"+page, data, layoutView)
}

// redirect persists the session and answers a POST with 303 See Other.
func redirect(c *fiber.Ctx, sess *session.Session, target string) error {
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (s *Server) HandleHome(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	return s.render(c, sess, "home", PageData{Title: "AI Resume Scanner"})
}

func (s *Server) HandleAbout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	return s.render(c, sess, "about", PageData{
		Title:      "About",
		Categories: services.Categories,
	})
}
