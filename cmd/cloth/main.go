//Command cloth runs the hanging cloth demo in a window, a terminal, as a
//websocket stream, or headless.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"diesel.com/cloth/app"
	"diesel.com/cloth/config"
	S "diesel.com/cloth/scene"
	"diesel.com/cloth/server"
	"diesel.com/cloth/termview"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "cloth",
		Short:         "Position based cloth hanging between two poles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Root().PersistentFlags())
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	config.RegisterFlags(root.PersistentFlags())

	//scene builds the configured scene for a subcommand
	scene := func(logger *log.Logger) (*S.Scene, config.Config, error) {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return nil, cfg, err
		}
		s, err := S.New(cfg, logger)
		return s, cfg, err
	}

	root.AddCommand(viewCmd(scene), termCmd(scene), serveCmd(scene), runCmd(scene))
	return root
}

type sceneFunc func(*log.Logger) (*S.Scene, config.Config, error)

func viewCmd(scene sceneFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open an OpenGL window (W wind, B sphere, Esc quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "", log.LstdFlags)
			s, cfg, err := scene(logger)
			if err != nil {
				return err
			}
			win := &app.AppWindow{Width: cfg.Width, Height: cfg.Height, Name: "Cloth"}
			return app.RenderClothGL(s, win, logger)
		},
	}
}

func termCmd(scene sceneFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "term",
		Short: "Draw the cloth in the terminal (w wind, b sphere, q quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			//the screen owns stdout, keep setup logs quiet
			s, _, err := scene(nil)
			if err != nil {
				return err
			}
			return termview.Main(s)
		},
	}
}

func serveCmd(scene sceneFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Stream frames to websocket clients on /ws",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "", log.LstdFlags)
			s, cfg, err := scene(logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			room := server.NewRoom(s, cfg.BroadcastHz, logger)
			return server.Serve(ctx, cfg.Addr, room)
		},
	}
}

func runCmd(scene sceneFunc) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step the scene headless and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := scene(nil)
			if err != nil {
				return err
			}
			return runHeadless(s, steps, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 600, "fixed steps to run")
	return cmd
}
