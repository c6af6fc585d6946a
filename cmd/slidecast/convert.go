package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/local/slidecast/internal/config"
	"github.com/local/slidecast/internal/pipeline"
)

var stageLabels = map[string]string{
	"extract":   "Extracting text",
	"summarize": "Summarizing content",
	"icons":     "Fetching icons",
	"render":    "Rendering decks",
	"rasterize": "Rasterizing slides",
	"narrate":   "Synthesizing narration",
}

func convertCmd() *cobra.Command {
	var input string
	var outDir string
	var numSlides int
	var musicPath string
	var skipVideo bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a PDF into slides.pptx, slides.pdf and video.mp4",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The progress bar owns stderr unless the user wants logs.
			if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			runner, err := pipeline.New(cfg)
			if err != nil {
				return err
			}

			// The bar steps through the bounded stages; the final
			// ffmpeg assembly has no useful step count, so a spinner
			// takes over for it.
			total := len(stageLabels)
			if skipVideo {
				total = 4
			}
			bar := progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetWidth(30),
				progressbar.OptionSetDescription("Starting"),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() { fmt.Fprint(os.Stderr, "\n") }),
			)
			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Writer = os.Stderr
			spin.Suffix = " Assembling video (ffmpeg)"

			start := time.Now()
			res, err := runner.Run(cmd.Context(), pipeline.Options{
				InputPath: input,
				OutDir:    outDir,
				NumSlides: numSlides,
				MusicPath: musicPath,
				SkipVideo: skipVideo,
				Progress: func(stage string) {
					if stage == "compose" {
						_ = bar.Finish()
						spin.Start()
						return
					}
					if label, ok := stageLabels[stage]; ok {
						bar.Describe(label)
					}
					_ = bar.Add(1)
				},
			})
			spin.Stop()
			if err != nil {
				fmt.Fprint(os.Stderr, "\n")
				return err
			}
			_ = bar.Finish()

			green := color.New(color.FgGreen).SprintFunc()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", green("✓"), res.PPTXPath)
			fmt.Fprintf(out, "%s %s\n", green("✓"), res.PDFPath)
			if res.VideoPath != "" {
				fmt.Fprintf(out, "%s %s\n", green("✓"), res.VideoPath)
			}
			fmt.Fprintf(out, "Done in %s\n", time.Since(start).Round(time.Second))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "input", "PDF file, or a directory whose first PDF is used")
	cmd.Flags().StringVarP(&outDir, "outdir", "o", "output", "directory for the generated artifacts")
	cmd.Flags().IntVar(&numSlides, "slides", 0, "number of content slides (default from config)")
	cmd.Flags().StringVar(&musicPath, "music", "", "background music mixed under the narration")
	cmd.Flags().BoolVar(&skipVideo, "skip-video", false, "stop after rendering the decks")
	return cmd
}
