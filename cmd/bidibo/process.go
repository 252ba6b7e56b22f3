// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bidibo/internal/fetch"
	"github.com/pdiddy/bidibo/internal/pipeline"
	"github.com/pdiddy/bidibo/internal/raster"
	"github.com/pdiddy/bidibo/pkg/types"
)

const (
	defaultSlidesPerPage = 3
	defaultFetchTimeout  = 60 * time.Second
	defaultPreviewWidth  = 600
)

var processCmd = &cobra.Command{
	Use:   "process <file-or-url>",
	Short: "Convert a slide deck into a black-and-white N-up handout",
	Long: `Process renders every retained page of the deck, binarizes it and stacks
the slides several to an A4 page. The result is written as <name>_bidibo.pdf
in the output directory. With --previews the first pages of the result are
also written as JPEG images.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.IntP("slides-per-page", "k", defaultSlidesPerPage, "slides stacked on each output page (1-10)")
	f.String("exclude", "", "comma-separated 1-based pages to leave out, e.g. 2,5")
	f.StringP("output-dir", "o", ".", "directory for the output document and previews")
	f.Bool("previews", false, "write preview images of the first output pages")
	f.String("report", "", "write a YAML run report to this file")
	f.Int("workers", 1, "pages processed concurrently")
	f.Float64("scale", raster.DefaultScale, "slide render scale")
	f.Int("preview-width", defaultPreviewWidth, "maximum preview width in pixels (0 keeps the rendered width)")
	f.Duration("timeout", 0, "abort the run after this long (0 means no limit)")
	f.BoolP("quiet", "q", false, "suppress progress lines")

	bind := map[string]string{
		"slides_per_page":      "slides-per-page",
		"output_dir":           "output-dir",
		"previews":             "previews",
		"timeout":              "timeout",
		"render.workers":       "workers",
		"render.scale":         "scale",
		"render.preview_width": "preview-width",
	}
	for key, flag := range bind {
		viper.BindPFlag(key, f.Lookup(flag))
	}
	viper.SetDefault("render.preview_scale", raster.PreviewScale)
	viper.SetDefault("fetch.timeout", defaultFetchTimeout)
	viper.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)

	rootCmd.AddCommand(processCmd)
}

// fetchConfig reads loader settings from viper.
func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		Timeout:    viper.GetDuration("fetch.timeout"),
		UserAgent:  viper.GetString("fetch.user_agent"),
		MaxRetries: viper.GetInt("fetch.max_retries"),
	}
}

// processConfig merges flags, config file and environment into one config.
func processConfig(cmd *cobra.Command) (types.ProcessConfig, error) {
	cfg := types.ProcessConfig{
		Render: types.RenderConfig{
			Scale:        viper.GetFloat64("render.scale"),
			PreviewScale: viper.GetFloat64("render.preview_scale"),
			PreviewWidth: viper.GetInt("render.preview_width"),
			Workers:      viper.GetInt("render.workers"),
		},
		Fetch:         fetchConfig(),
		SlidesPerPage: viper.GetInt("slides_per_page"),
		OutputDir:     viper.GetString("output_dir"),
		Previews:      viper.GetBool("previews"),
		Timeout:       viper.GetDuration("timeout"),
	}

	if cmd.Flags().Changed("exclude") {
		raw, _ := cmd.Flags().GetString("exclude")
		pages, err := parsePageList(raw)
		if err != nil {
			return cfg, err
		}
		cfg.Exclude = pages
	} else {
		cfg.Exclude = viper.GetIntSlice("exclude")
	}
	return cfg, nil
}

// parsePageList parses "2, 5,11" into page numbers. Empty input yields none.
func parsePageList(s string) ([]int, error) {
	var pages []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q in --exclude", field)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := processConfig(cmd)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	reportPath, _ := cmd.Flags().GetString("report")

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	loader := fetch.NewLoader(nil, cfg.Fetch, log)
	src, err := loader.Load(ctx, args[0])
	if err != nil {
		return err
	}

	a := pipeline.New(raster.NewFitzEngine(),
		pipeline.WithLogger(log),
		pipeline.WithWorkers(cfg.Render.Workers),
		pipeline.WithScale(cfg.Render.Scale),
		pipeline.WithPreviewScale(cfg.Render.PreviewScale),
		pipeline.WithPreviewWidth(cfg.Render.PreviewWidth),
	)

	status := cmd.ErrOrStderr()
	onProgress := func(p types.Progress) {
		if !quiet {
			fmt.Fprintf(status, "[%3.0f%%] %s\n", p.Percent, p.Message)
		}
	}

	res, err := a.Process(ctx, pipeline.Request{
		Document:      src.Data,
		Filename:      src.Name,
		SlidesPerPage: cfg.SlidesPerPage,
		Exclude:       cfg.Exclude,
	}, onProgress)
	if err != nil {
		return err
	}

	written, err := writeOutputs(cfg, res)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), res, written)

	if reportPath == "" {
		return nil
	}
	report := buildReport(args[0], cfg.SlidesPerPage, res, written, time.Since(start))
	if err := writeReport(reportPath, report); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", reportPath)
	return nil
}

// writtenFiles lists the files a run produced.
type writtenFiles struct {
	Document string
	Previews []string
}

func writeOutputs(cfg types.ProcessConfig, res *types.Result) (writtenFiles, error) {
	var w writtenFiles
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return w, fmt.Errorf("creating output dir: %w", err)
	}

	w.Document = filepath.Join(cfg.OutputDir, res.Filename)
	if err := writeFileAtomic(w.Document, res.Document); err != nil {
		return w, err
	}

	if !cfg.Previews {
		return w, nil
	}
	base := strings.TrimSuffix(res.Filename, filepath.Ext(res.Filename))
	for i, img := range res.Previews {
		p := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-preview-%d.jpg", base, i+1))
		if err := writeFileAtomic(p, img); err != nil {
			return w, err
		}
		w.Previews = append(w.Previews, p)
	}
	return w, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".bidibo-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", dest, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, res *types.Result, files writtenFiles) {
	fmt.Fprintf(w, "Wrote %s (%d slides on %d page(s))\n", files.Document, len(res.Retained)-len(res.Skipped), res.Pages)
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  skipped slide %d: %v\n", s.Page, s.Err)
	}
	for _, p := range files.Previews {
		fmt.Fprintf(w, "Preview: %s\n", p)
	}
}

func buildReport(source string, k int, res *types.Result, files writtenFiles, elapsed time.Duration) types.RunReport {
	r := types.RunReport{
		Source:        source,
		Output:        files.Document,
		SlidesPerPage: k,
		OutputPages:   res.Pages,
		Retained:      res.Retained,
		Previews:      files.Previews,
		Duration:      elapsed.Round(time.Millisecond),
		FinishedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, s := range res.Skipped {
		r.Skipped = append(r.Skipped, types.SkippedPage{Page: s.Page, Reason: fmt.Sprint(s.Err)})
	}
	return r
}

func writeReport(path string, r types.RunReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return writeFileAtomic(path, data)
}
