package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// JobOptions configures JobDescription
type JobOptions struct {
	HTTP       *Options
	UseBrowser bool
	Render     Renderer
	Logger     *slog.Logger
}

// JobDescription fetches a job posting page and returns its description text. When
// the plain fetch yields too little text and UseBrowser is set, the page is rendered
// in a headless browser and extracted again.
func JobDescription(ctx context.Context, urlStr string, opts *JobOptions) (string, error) {
	if opts == nil {
		opts = &JobOptions{}
	}
	httpOpts := opts.HTTP
	if httpOpts == nil {
		httpOpts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	content := PlatformContentSelectors(urlStr)
	noise := PlatformNoiseSelectors(urlStr)

	result, err := URL(ctx, urlStr, httpOpts)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if opts.UseBrowser && ShouldUseBrowser(text) {
		render := opts.Render
		if render == nil {
			render = WithBrowser
		}
		timeout := httpOpts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		logger.Info("job page text too short, rendering in browser",
			"url", urlStr, "platform", DetectPlatform(urlStr), "chars", len(text))

		html, err := render(ctx, urlStr, timeout)
		if err != nil {
			// keep the plain-fetch text when rendering fails
			logger.Warn("browser rendering failed", "url", urlStr, "error", err)
		} else if rendered, err := ExtractMainText(html, content, noise...); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: urlStr, Message: "no job description text found"}
	}
	return text, nil
}
