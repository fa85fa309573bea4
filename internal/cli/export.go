package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/export"
	"github.com/roach88/cardsmith/internal/render"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output    string
	As        string
	Scale     float64
	Quality   int
	Sides     []string
	ImagesDir string
	Name      string
}

// ExportResult lists the files an export wrote.
type ExportResult struct {
	Format string   `json:"format"`
	Files  []string `json:"files"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Render a project to PNG, JPEG or PDF",
		Long: `Render project sides to image files or a single PDF.

PNG and JPEG write one file per side named <name>-<side>.<ext>. PDF writes
<name>.pdf with one page per side at the card's physical size. Image shapes
with relative paths are resolved against --images (default: the project's
directory).

Example:
  cardsmith export badge.json -o out
  cardsmith export badge.json -o out --as pdf
  cardsmith export badge.json -o out --as jpeg --side back --scale 4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.As, "as", string(export.PNG), "file format (png|jpeg|pdf)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", export.DefaultScale, "pixel scale for raster output")
	cmd.Flags().IntVar(&opts.Quality, "quality", render.DefaultJPEGQuality, "JPEG quality (1-100)")
	cmd.Flags().StringSliceVar(&opts.Sides, "side", nil, "sides to export (front,back)")
	cmd.Flags().StringVar(&opts.ImagesDir, "images", "", "directory for relative image paths")
	cmd.Flags().StringVar(&opts.Name, "name", "", "output base name (default: project file name)")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	format, err := export.ParseFormat(opts.As)
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid --as", err)
	}
	sides := make([]document.SideID, 0, len(opts.Sides))
	for _, s := range opts.Sides {
		id, err := document.ParseSide(s)
		if err != nil {
			return formatter.Fail(ExitCommandError, "invalid --side", err)
		}
		sides = append(sides, id)
	}

	p, err := readProjectFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load project", err)
	}

	imagesDir := opts.ImagesDir
	if imagesDir == "" {
		imagesDir = filepath.Dir(path)
	}
	base := opts.Name
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	renderer := render.NewRenderer(
		render.WithImageSource(render.NewLocalImages(imagesDir)),
		render.WithLogger(logger),
	)
	exporter := export.New(renderer, export.WithLogger(logger))

	formatter.VerboseLog("Exporting %s as %s to %s", path, format, opts.Output)
	files, err := exporter.WriteFiles(opts.Output, base, p.Document(), export.Options{
		Format:  format,
		Scale:   opts.Scale,
		Quality: opts.Quality,
		Sides:   sides,
		Title:   base,
	})
	if err != nil {
		return formatter.Fail(ExitFailure, "export failed", err)
	}

	result := ExportResult{Format: string(format), Files: files}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	for _, f := range files {
		fmt.Fprintf(formatter.Writer, "✓ %s\n", f)
	}
	return nil
}
