package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templatesFS embed.FS

const layoutView = "layout"

// NewViews builds the html engine over the embedded templates. Views are named by their
// path under templates/ without extension, e.g. "pages/result"; pages render inside
// "layout" through {{embed}}.
func NewViews() *html.Engine {
	root, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFunc("lower", strings.ToLower)
	return engine
}
