package render

import (
	"fmt"
	"io"

	"github.com/fzzzy/mumulib/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the <body> element of the page.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// ClientScript is the path of the script that applies live patches.
	// No script tag is written when empty.
	ClientScript string
}

// RenderPage writes a complete HTML document.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n<meta charset=\"utf-8\">\n", escapeAttr(lang)); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	if page.ClientScript != "" {
		if _, err := fmt.Fprintf(w, "<script src=\"%s\" defer></script>\n", escapeAttr(page.ClientScript)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n"); err != nil {
		return err
	}

	body := page.Body
	if body == nil {
		body = vdom.Body()
	}
	if err := r.RenderToWriter(w, body); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n</html>\n")
	return err
}
