package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/content"
	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/router"
	"github.com/bytetobeacon/beacon/internal/server"
	"github.com/bytetobeacon/beacon/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog",
	Long: `Starts the blog web server: article listing with live search, article
pages, static pages and the submission forms. With --with-relay the email
relay runs in the same process and the forms submit to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		if port != 0 {
			cfg.Server.Port = port
		}
		withRelay, _ := cmd.Flags().GetBool("with-relay")
		open, _ := cmd.Flags().GetBool("open")

		if err := cfg.Validate(withRelay); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pages, err := content.Load()
		if err != nil {
			return fmt.Errorf("loading site content: %w", err)
		}

		pending := articles.Start(ctx, articles.NewLoader(cfg.Articles.Source))
		go func() {
			<-pending.Done()
			if err := pending.Err(); err != nil {
				logger.Error("article load failed", zap.String("source", cfg.Articles.Source), zap.Error(err))
				return
			}
			s, _ := pending.Wait(context.Background())
			logger.Info("articles loaded", zap.Int("count", s.Len()))
		}()

		mode := router.ModeStrict
		if cfg.Server.LegacyRouting {
			mode = router.ModeLegacy
		}
		front := site.New(site.Config{
			Debounce: cfg.Search.Debounce,
			Mode:     mode,
		}, pending, pages, forms.NewClient(cfg.FormsEndpoint()), logger)

		srv := server.New("site", server.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, logger)
		front.RegisterRoutes(srv.Router())

		var relaySrv *server.Server
		if withRelay {
			rs, closeLog, err := newRelayServer(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			relaySrv = rs
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(ctx) })
		if relaySrv != nil {
			g.Go(func() error { return relaySrv.Run(ctx) })
			fmt.Printf("Email relay listening on http://%s\n", relaySrv.ServerConfig().Addr())
		}

		url := "http://" + srv.ServerConfig().Addr()
		fmt.Printf("ByteToBeacon serving on %s\n", url)
		if open {
			go func() {
				time.Sleep(500 * time.Millisecond)
				site.OpenBrowser(url)
			}()
		}
		fmt.Println("Press Ctrl+C to stop.")

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open the blog in the default browser")
	serveCmd.Flags().Bool("with-relay", false, "run the email relay in the same process")
	rootCmd.AddCommand(serveCmd)
}
