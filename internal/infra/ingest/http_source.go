package ingest

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cdk-distributor/internal/infra"
	"cdk-distributor/internal/pkg/config"
	"cdk-distributor/internal/pkg/errs"
)

var (
	ErrUnsupportedScheme = errs.New("source url must be http or https")
	ErrUnexpectedStatus  = errs.New("source returned non-200 status")
	ErrBodyTooLarge      = errs.New("source body exceeds the size limit")
)

// HTTPSource fetches a newline-delimited code list over HTTP.
type HTTPSource struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
	logger    *slog.Logger
}

func NewHTTPSource(cfg config.IngestConfig, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		client:    &http.Client{Timeout: cfg.Timeout},
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Fetch returns every non-empty trimmed line of the body in order. It never
// retries; the caller decides what a failure means.
func (s *HTTPSource) Fetch(ctx context.Context, rawURL string) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errs.Wrapf(ErrUnsupportedScheme, "url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errs.Wrap(err, "build source request")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindUpstream, "fetch code list", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, infra.WrapRepoErr(s.logger, infra.KindUpstream, "fetch code list",
			errs.Wrapf(ErrUnexpectedStatus, "status %d", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if s.maxBytes > 0 {
		// one extra byte tells an oversized list apart from one that fits exactly
		body = io.LimitReader(resp.Body, s.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindUpstream, "read code list", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, infra.WrapRepoErr(s.logger, infra.KindUpstream, "read code list",
			errs.Wrapf(ErrBodyTooLarge, "limit %d bytes", s.maxBytes))
	}

	codes, err := splitLines(bytes.NewReader(data))
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindUpstream, "read code list", err)
	}

	s.logger.Info("code list fetched",
		slog.String("host", u.Host),
		slog.Int("codes", len(codes)),
		slog.Duration("duration", time.Since(start)))

	return codes, nil
}

func splitLines(r io.Reader) ([]string, error) {
	var codes []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		codes = append(codes, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(err, "scan code list")
	}
	return codes, nil
}
