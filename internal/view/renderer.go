package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/hitoshi/portfolio/internal/router"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// pageFiles は描画するルートとテンプレートの対応。
// AuthCallbackは常にリダイレクトで応答するため持たない。
var pageFiles = map[router.Route]string{
	router.Home:    "templates/home.html",
	router.Blog:    "templates/blog.html",
	router.Members: "templates/members.html",
	router.Forum:   "templates/forum.html",
	router.Profile: "templates/profile.html",
}

// Renderer はルートごとのテンプレートを保持する。生成後は読み取り専用。
type Renderer struct {
	pages map[router.Route]*template.Template
}

// NewRenderer は埋め込みテンプレートを解析する。
// 各ルートのテンプレートは共通レイアウトを複製して作る。
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[router.Route]*template.Template, len(pageFiles))
	for route, file := range pageFiles {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", route, err)
		}
		tmpl, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[route] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render はページをwに書き込む。描画に失敗した場合は何も書き込まない。
func (r *Renderer) Render(w io.Writer, page Page) error {
	tmpl, ok := r.pages[page.Route]
	if !ok {
		return fmt.Errorf("no template for route %s", page.Route)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", page.Route, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
