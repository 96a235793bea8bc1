package export

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cv-generator-backend/pkg/logger"

	"github.com/playwright-community/playwright-go"
)

// Renderer turns an HTML page into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// PlaywrightRenderer prints pages with headless Chromium. The browser is
// started on first use and shared by later renders.
type PlaywrightRenderer struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywrightRenderer() *PlaywrightRenderer {
	return &PlaywrightRenderer{}
}

func (r *PlaywrightRenderer) start() (playwright.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil && r.browser.IsConnected() {
		return r.browser, nil
	}
	if r.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		r.pw = pw
	}

	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	r.browser = browser
	logger.Log.Info("Chromium started for PDF export")
	return browser, nil
}

func (r *PlaywrightRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browser, err := r.start()
	if err != nil {
		return nil, err
	}

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		JavaScriptEnabled: playwright.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	// The page is self-contained; nothing may leave the process.
	if err := page.Route("**/*", func(route playwright.Route) {
		if isInlineURL(route.Request().URL()) {
			_ = route.Continue()
			return
		}
		_ = route.Abort("blockedbyclient")
	}); err != nil {
		return nil, fmt.Errorf("could not install request filter: %w", err)
	}

	if err := page.SetContent(string(html), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

// Close stops the browser and the playwright driver.
func (r *PlaywrightRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			logger.Log.Warn("Failed to close browser", "error", err)
		}
		r.browser = nil
	}
	if r.pw == nil {
		return nil
	}
	err := r.pw.Stop()
	r.pw = nil
	return err
}

func isInlineURL(u string) bool {
	return strings.HasPrefix(u, "data:") || strings.HasPrefix(u, "about:")
}
