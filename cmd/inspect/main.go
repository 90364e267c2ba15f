package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
	"github.com/anime-shed/image-metrics-go/internal/config"
	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/logger"
	"github.com/anime-shed/image-metrics-go/internal/report"
	"github.com/anime-shed/image-metrics-go/internal/storage"
	"github.com/anime-shed/image-metrics-go/internal/visualize"
)

type cli struct {
	Image     string `arg:"" name:"image" help:"Path of the image to analyze."`
	OutputDir string `name:"output-dir" default:"${output_dir}" help:"Directory for the visualization PNG." hidden:""`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Exit))
}

func run(args []string, stdout, stderr io.Writer, exit func(int)) int {
	logger.SetOutput(stderr)
	logger.UseTextFormatter()

	var c cli
	parser, err := kong.New(&c,
		kong.Name("inspect"),
		kong.Description("Compute color, texture, histogram and quality metrics for one image."),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Vars{"output_dir": config.OutputDirFromEnv()},
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if _, err := parser.Parse(args); err != nil {
		parser.Errorf("%s", err)
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		return 1
	}

	return inspect(context.Background(), c, stdout, stderr)
}

func inspect(ctx context.Context, c cli, stdout, stderr io.Writer) int {
	img, format, err := storage.NewFileImageLoader().FetchImage(ctx, c.Image)
	if err != nil {
		return fail(stderr, "Error loading image", err)
	}

	a, err := analyzer.NewImageAnalyzer(analyzer.DefaultOptions())
	if err != nil {
		return fail(stderr, "Error creating analyzer", err)
	}
	defer a.Close()

	result, err := a.Analyze(ctx, img)
	if err != nil {
		return fail(stderr, "Error processing image", err)
	}
	result.Report.Source = c.Image
	result.Report.Image.Format = format

	if err := report.WriteText(stdout, filepath.Base(c.Image), result.Report); err != nil {
		return fail(stderr, "Error writing report", err)
	}

	path, err := visualize.New(c.OutputDir).Save(c.Image, result)
	if err != nil {
		logger.WithError(err).WithField("output_dir", c.OutputDir).Warn("Could not create visualization")
		return 0
	}
	fmt.Fprintf(stdout, "Visualization saved to: %s\n", path)
	return 0
}

func fail(stderr io.Writer, message string, err error) int {
	logger.WithError(err).WithFields(logrus.Fields{
		"file_not_found": apperrors.IsType(err, apperrors.ErrorTypeFileNotFound),
		"decode_failure": apperrors.IsType(err, apperrors.ErrorTypeDecode),
	}).Error(message)
	fmt.Fprintf(stderr, "%s: %v\n", message, err)
	return apperrors.ExitCode(err)
}
