package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/kikiluvv/reelmix/internal/config"
	"github.com/kikiluvv/reelmix/internal/ffmpeg"
	"github.com/kikiluvv/reelmix/internal/logging"
	"github.com/kikiluvv/reelmix/internal/pipeline"
	"github.com/kikiluvv/reelmix/internal/selector"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	seed    uint64

	folder1     string
	folder2     string
	musicFolder string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetArgs(expandShortFlags(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reelmix -f1 <folder1> -f2 <folder2> -m <music_folder>",
	Short: "reelmix - stitch two random clips over a random track",
	Long: "Picks a random .mp4 from each of two folders and a random .mp3 from a music folder,\n" +
		"keeps the first 2 seconds of each video, joins them, lays the first 5 seconds\n" +
		"of the music over the result and writes result.mp4.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		executor, err := ffmpeg.New(cmd.Context(), log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		sel := selector.NewRandom()
		if cmd.Flags().Changed("seed") {
			sel = selector.New(seed)
		}

		pipe, err := pipeline.New(log.Logger, pipeline.ConfigFrom(cfg), executor, sel, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		result, err := pipe.Run(cmd.Context(), pipeline.Options{
			VideoFolder1: folder1,
			VideoFolder2: folder2,
			MusicFolder:  musicFolder,
		})
		if err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Debug().
			Str("output", result.Output).
			Dur("duration", result.Duration).
			Int("segments", len(result.Clip.Segments)).
			Msg("done")

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVar(&folder1, "folder1", "", "Path to folder 1 with video files (-f1)")
	rootCmd.Flags().StringVar(&folder2, "folder2", "", "Path to folder 2 with video files (-f2)")
	rootCmd.Flags().StringVarP(&musicFolder, "music_folder", "m", "", "Path to the folder with music files")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for file selection (default: random)")

	_ = rootCmd.MarkFlagRequired("folder1")
	_ = rootCmd.MarkFlagRequired("folder2")
	_ = rootCmd.MarkFlagRequired("music_folder")
}
