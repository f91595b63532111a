package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nilszeilon/promptimg/internal/i18n"
	"github.com/nilszeilon/promptimg/internal/imageref"
	"github.com/nilszeilon/promptimg/internal/preview"
	"github.com/nilszeilon/promptimg/internal/timing"
	"github.com/nilszeilon/promptimg/internal/watch"
)

func newExtractCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "List the images referenced by a prompt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var images []string
			if c := opts.client(); c != nil {
				if images, err = c.Extract(cmd.Context(), text); err != nil {
					return err
				}
			} else {
				images = imageref.Extract(text)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(images)
			}
			for _, img := range images {
				fmt.Fprintln(out, img)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	return cmd
}

func newEncodeCmd(opts *options) *cobra.Command {
	var isBase64 bool
	cmd := &cobra.Command{
		Use:   "encode REFERENCE",
		Short: "Print the placeholder for an image path or base64 payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var placeholder string
			if c := opts.client(); c != nil {
				var err error
				if placeholder, err = c.Placeholder(cmd.Context(), args[0], isBase64); err != nil {
					return err
				}
			} else {
				placeholder = imageref.Encode(args[0], isBase64)
			}
			if strings.Contains(args[0], "}") {
				log.Warnf("reference contains '}' and cannot be extracted back: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), placeholder)
			return nil
		},
	}
	cmd.Flags().BoolVar(&isBase64, "base64", false, "tag the reference as base64 data")
	return cmd
}

func newPreviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Render a prompt as HTML with its images inline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if c := opts.client(); c != nil {
				html, err := c.Preview(cmd.Context(), text)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), html)
				return err
			}
			return preview.NewRenderer().Render(cmd.OutOrStdout(), text)
		},
	}
}

func newWatchCmd(opts *options) *cobra.Command {
	var debounce, throttle time.Duration
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Print the prompt's images every time the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = opts.cfg.Debounce
			}
			if !cmd.Flags().Changed("throttle") {
				throttle = opts.cfg.Throttle
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			handler := func(r watch.Result) {
				if err := enc.Encode(r); err != nil {
					log.Printf("write result: %v", err)
				}
			}
			if throttle > 0 {
				th := timing.NewThrottler(throttle, handler)
				defer th.Stop()
				handler = th.Call
			}

			w, err := watch.NewWatcher(args[0], debounce, handler)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Watch(ctx)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-reading the file (default from config)")
	cmd.Flags().DurationVar(&throttle, "throttle", 0, "minimum time between printed results, 0 to disable")
	return cmd
}

func newI18nCmd(opts *options) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "i18n",
		Short: "Inspect the display-string catalog",
	}
	cmd.PersistentFlags().StringVar(&lang, "lang", "", "language to inspect (default from config)")

	open := func() (*i18n.Catalog, error) {
		l := opts.cfg.Language
		if lang != "" {
			l = lang
		}
		return i18n.Open(opts.cfg.LocalesDir, l, opts.cfg.Fallback)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active language, supported languages and keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := open()
			if err != nil {
				return err
			}
			i18n.NewDebugger(catalog, cmd.OutOrStdout()).PrintStatus()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check [KEY...]",
		Short: "Check that keys are translated in every language",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := open()
			if err != nil {
				return err
			}
			missing := i18n.NewDebugger(catalog, cmd.OutOrStdout()).TestTranslations(args)
			if len(missing) > 0 {
				return fmt.Errorf("%d missing translation(s)", len(missing))
			}
			return nil
		},
	})
	return cmd
}
