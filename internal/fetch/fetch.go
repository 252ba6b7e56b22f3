// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch loads a source document from a local path or an http(s) URL
// and rejects anything that is not a PDF.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bidibo/pkg/types"
)

// DefaultUserAgent is sent when the config leaves UserAgent empty.
const DefaultUserAgent = "bidibo/0.1"

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned for input that is not a PDF document.
var ErrNotPDF = errors.New("only PDF files are accepted")

// Source is a loaded document together with the name used to derive the
// output file name.
type Source struct {
	Data []byte
	Name string
}

// Loader loads source documents.
type Loader struct {
	client *http.Client
	cfg    types.FetchConfig
	log    logrus.FieldLogger
}

// NewLoader returns a Loader. A nil client gets one with cfg.Timeout.
func NewLoader(client *http.Client, cfg types.FetchConfig, log logrus.FieldLogger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{client: client, cfg: cfg, log: log}
}

// IsURL reports whether src should be downloaded rather than read from disk.
func IsURL(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads src, which is either a local path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, src string) (Source, error) {
	if IsURL(src) {
		return l.download(ctx, src)
	}
	return readFile(src)
}

func readFile(p string) (Source, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Source{}, fmt.Errorf("reading %s: %w", p, err)
	}
	if err := CheckPDF(data); err != nil {
		return Source{}, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	return Source{Data: data, Name: filepath.Base(p)}, nil
}

func (l *Loader) download(ctx context.Context, rawURL string) (Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Source{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := doWithRetry(ctx, l.client, req, l.cfg.MaxRetries, l.log)
	if err != nil {
		return Source{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Source{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return Source{}, fmt.Errorf("reading download: %w", err)
	}
	data := buf.Bytes()
	if err := CheckPDF(data); err != nil {
		return Source{}, fmt.Errorf("%s: %w", rawURL, err)
	}

	l.log.WithFields(logrus.Fields{"url": rawURL, "bytes": len(data)}).Debug("downloaded source")
	return Source{Data: data, Name: nameFromURL(req.URL)}, nil
}

// CheckPDF returns ErrNotPDF unless data carries the PDF signature.
func CheckPDF(data []byte) error {
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	if ct := http.DetectContentType(data); ct != "application/pdf" {
		return fmt.Errorf("%w (detected %s)", ErrNotPDF, ct)
	}
	return nil
}

// nameFromURL uses the last path segment, falling back to the host.
func nameFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return strings.ReplaceAll(u.Hostname(), ".", "_") + ".pdf"
	}
	return base
}
