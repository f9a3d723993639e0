// heightlink searches for loose displacement/heightmap files and links them
// into glTF materials as a KHR_materials_displacement extension.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/meshpipe/heightlink/internal/config"
	"github.com/meshpipe/heightlink/internal/linker"
	"github.com/meshpipe/heightlink/internal/logger"
	"github.com/meshpipe/heightlink/pkg/gltf"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.ConsoleLevel(), cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// The template is loaded once up front; failing to read it aborts
	// before any document is touched.
	var template *gltf.Document
	if cfg.Link.CopyFrom != "" {
		template, err = gltf.Load(cfg.Link.CopyFrom)
		if err != nil {
			logger.Error("failed to load template", zap.Error(err))
			os.Exit(1)
		}
	}

	lk, err := linker.New(linker.Options{
		Scale:              cfg.Link.Scale,
		Bias:               cfg.Link.Bias,
		ExtraPaths:         cfg.Match.ExtraPaths,
		Filter:             cfg.Link.Filter,
		FilterOut:          cfg.Link.FilterOut,
		HeightmapPattern:   cfg.Match.HeightmapPattern,
		KnownExtensions:    cfg.Match.KnownExtensions,
		ImageNameWeight:    cfg.Match.ImageNameWeight,
		MaterialNameWeight: cfg.Match.MaterialNameWeight,
		MatchOneImage:      cfg.Match.OneImage,
		MatchOneMaterial:   cfg.Match.OneMaterial,
		MaterialsOnly:      cfg.Match.MaterialsOnly,
	}, template, logger.Sugar)
	if err != nil {
		logger.Error("invalid options", zap.Error(err))
		os.Exit(1)
	}

	var confirm linker.Confirmer
	if !cfg.Link.Force {
		confirm = linker.NewConsoleConfirmer(os.Stdin, os.Stdout, cfg.Logging.Quiet)
	}

	// Documents are processed strictly one after another; a failing
	// document is skipped, an abort answer stops the rest of the batch.
	exit := 0
	for _, path := range flag.Args() {
		res, err := lk.ProcessFile(path, confirm)
		if err != nil {
			logger.Error("processing failed", zap.String("file", path), zap.Error(err))
			exit = 1
			continue
		}
		if res.Written {
			logger.Sugar.Infof("wrote %s", path)
		}
		if res.Aborted {
			break
		}
	}
	os.Exit(exit)
}

func printUsage() {
	fmt.Println(`heightlink - link loose heightmap files into glTF materials

Usage:
  heightlink [options] <file.gltf> [file.gltf ...]

Options:`)
	flag.PrintDefaults()
	fmt.Println(`
Examples:
  heightlink scene.gltf
  heightlink -force -scale 0.05 scene.gltf
  heightlink -extra-path ./heightmaps -filter-out "^Glass" scene.gltf
  heightlink -copy-from tuned.gltf scene.gltf`)
}
